package engine

import (
	"fmt"
	"math"
	"strings"
)

// Tolerance is the absolute difference under which two means compare equal.
const Tolerance = 0.001

type Relation int

const (
	Less Relation = iota
	Greater
	Equal
)

func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(s) {
	case "less":
		return Less, nil
	case "greater":
		return Greater, nil
	case "equal":
		return Equal, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownRelation)
}

func (r Relation) String() string {
	switch r {
	case Less:
		return "less"
	case Greater:
		return "greater"
	case Equal:
		return "equal"
	}
	return "unknown"
}

func (r Relation) match(m, v float64) bool {
	switch r {
	case Less:
		return m < v
	case Greater:
		return m > v
	case Equal:
		return approxEqual(m, v)
	}
	return false
}

type Extreme int

const (
	Lowest Extreme = iota
	Highest
)

func ParseExtreme(s string) (Extreme, error) {
	switch strings.ToLower(s) {
	case "lowest":
		return Lowest, nil
	case "highest":
		return Highest, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownExtreme)
}

func (e Extreme) String() string {
	if e == Highest {
		return "highest"
	}
	return "lowest"
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Entry is one country's mean for the built series.
type Entry struct {
	Country string
	Mean    float64
}

// Projection holds per-country means of the last built series code. Entries
// are copies; mutating the table never touches them implicitly.
type Projection struct {
	seriesCode string
	entries    []Entry
}

func NewProjection() *Projection {
	return &Projection{}
}

// Build replaces the projection with one entry per country in t owning a
// series with code, in slot order. The code is recorded even if nothing
// matched, so later inserts still extend the projection.
func (p *Projection) Build(t *Table, code string) int {
	size := t.Len()
	if size == 0 {
		size = 1
	}
	p.entries = make([]Entry, 0, size)
	p.seriesCode = code
	t.Each(func(_ int, c *Country) bool {
		p.add(c)
		return true
	})
	return len(p.entries)
}

// Append adds c when a build is active and c carries the built series.
func (p *Projection) Append(c *Country) bool {
	if !p.Active() {
		return false
	}
	return p.add(c)
}

func (p *Projection) add(c *Country) bool {
	s, ok := c.Series(p.seriesCode)
	if !ok {
		return false
	}
	if len(p.entries) == cap(p.entries) {
		grown := make([]Entry, len(p.entries), max(1, 2*cap(p.entries)))
		copy(grown, p.entries)
		p.entries = grown
	}
	p.entries = append(p.entries, Entry{Country: c.Name, Mean: s.Mean()})
	return true
}

// Range returns the smallest and largest mean.
func (p *Projection) Range() (float64, float64, bool) {
	if len(p.entries) == 0 {
		return 0, 0, false
	}
	lo, hi := p.entries[0].Mean, p.entries[0].Mean
	for _, e := range p.entries[1:] {
		if e.Mean < lo {
			lo = e.Mean
		}
		if e.Mean > hi {
			hi = e.Mean
		}
	}
	return lo, hi, true
}

// Threshold lists, in projection order, the countries whose mean satisfies rel
// against value.
func (p *Projection) Threshold(value float64, rel Relation) []string {
	var names []string
	for _, e := range p.entries {
		if rel.match(e.Mean, value) {
			names = append(names, e.Country)
		}
	}
	return names
}

// Extremes lists every country whose mean ties the lowest or highest mean.
func (p *Projection) Extremes(which Extreme) []string {
	if len(p.entries) == 0 {
		return nil
	}
	extreme := p.entries[0].Mean
	for _, e := range p.entries[1:] {
		if which == Lowest && e.Mean < extreme {
			extreme = e.Mean
		} else if which == Highest && e.Mean > extreme {
			extreme = e.Mean
		}
	}
	var names []string
	for _, e := range p.entries {
		if approxEqual(e.Mean, extreme) {
			names = append(names, e.Country)
		}
	}
	return names
}

// RemoveByName drops every entry for name and compacts the rest in order.
func (p *Projection) RemoveByName(name string) bool {
	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.Country != name {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(p.entries)
	clear(p.entries[len(kept):])
	p.entries = kept
	return removed
}

func (p *Projection) Active() bool { return p.seriesCode != "" }

func (p *Projection) SeriesCode() string { return p.seriesCode }

func (p *Projection) Len() int { return len(p.entries) }

func (p *Projection) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Reset forgets the built series and all entries.
func (p *Projection) Reset() {
	p.seriesCode = ""
	p.entries = nil
}
