package engine

import "fmt"

// DefaultCapacity is the slot count used when none is configured.
const DefaultCapacity = 512

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

func (s slotState) String() string {
	switch s {
	case slotOccupied:
		return "occupied"
	case slotTombstone:
		return "tombstone"
	default:
		return "empty"
	}
}

type slot struct {
	state   slotState
	country *Country
}

// Table is a fixed-capacity open-addressing hash table keyed by country code.
// Collisions are resolved by double hashing; removals leave tombstones so that
// probe chains through the removed slot stay intact. It never resizes.
type Table struct {
	slots []slot
	count int
}

// NewTable allocates capacity slots, rounded up to a power of two so that
// every odd step visits all of them.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{slots: make([]slot, ceilPow2(capacity))}
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// HashKey reads code as a base-26 numeral with 'A' as digit zero.
func HashKey(code string) uint32 {
	var w uint32
	for i := 0; i < len(code); i++ {
		w = w*26 + uint32(code[i]-'A')
	}
	return w
}

func (t *Table) h1(w uint32) uint32 {
	return w % uint32(len(t.slots))
}

// h2 is forced odd so that it is coprime with a power-of-two capacity.
func (t *Table) h2(w uint32) uint32 {
	c := uint32(len(t.slots))
	step := (w / c) % c
	if step%2 == 0 {
		step++
	}
	return step
}

// probe returns the i-th slot index of code's probe sequence.
func (t *Table) probe(w uint32, i int) int {
	c := uint64(len(t.slots))
	return int((uint64(t.h1(w)) + uint64(i)*uint64(t.h2(w))) % c)
}

// ProbeSequence lists the first n slots examined for code.
func (t *Table) ProbeSequence(code string, n int) []int {
	if n > len(t.slots) {
		n = len(t.slots)
	}
	w := HashKey(code)
	seq := make([]int, n)
	for i := range seq {
		seq[i] = t.probe(w, i)
	}
	return seq
}

// Insert places c in the first empty or tombstoned slot of its probe sequence.
// Probing continues past tombstones up to the first empty slot, so a copy of
// the code further along the chain is reported as ErrDuplicate.
func (t *Table) Insert(c *Country) (int, error) {
	if c == nil {
		return -1, fmt.Errorf("insert: nil country")
	}
	w := HashKey(c.Code)
	free := -1
	for i := 0; i < len(t.slots); i++ {
		pos := t.probe(w, i)
		s := &t.slots[pos]
		switch s.state {
		case slotOccupied:
			if s.country.Code == c.Code {
				return -1, fmt.Errorf("insert %s: %w", c.Code, ErrDuplicate)
			}
			continue
		case slotTombstone:
			if free == -1 {
				free = pos
			}
			continue
		}
		if free == -1 {
			free = pos
		}
		break
	}
	if free == -1 {
		return -1, fmt.Errorf("insert %s after %d probes: %w", c.Code, len(t.slots), ErrCapacityExhausted)
	}
	t.slots[free] = slot{state: slotOccupied, country: c}
	t.count++
	return free, nil
}

// Search walks code's probe sequence. It stops at the matching slot or at the
// first empty slot; tombstones are stepped over. The probe count includes the
// terminating probe. A miss returns slot -1.
func (t *Table) Search(code string) (int, int) {
	w := HashKey(code)
	probes := 0
	for i := 0; i < len(t.slots); i++ {
		pos := t.probe(w, i)
		probes++
		s := &t.slots[pos]
		switch s.state {
		case slotOccupied:
			if s.country.Code == code {
				return pos, probes
			}
		case slotEmpty:
			return -1, probes
		}
	}
	return -1, probes
}

// Remove drops the country stored under code and tombstones its slot.
func (t *Table) Remove(code string) bool {
	pos, _ := t.Search(code)
	if pos < 0 {
		return false
	}
	t.slots[pos] = slot{state: slotTombstone}
	t.count--
	return true
}

// Get returns the country in an occupied slot.
func (t *Table) Get(pos int) (*Country, bool) {
	if pos < 0 || pos >= len(t.slots) || t.slots[pos].state != slotOccupied {
		return nil, false
	}
	return t.slots[pos].country, true
}

// Lookup is Search followed by Get.
func (t *Table) Lookup(code string) (*Country, bool) {
	pos, _ := t.Search(code)
	return t.Get(pos)
}

// Each visits occupied slots in index order until fn returns false.
func (t *Table) Each(fn func(pos int, c *Country) bool) {
	for i := range t.slots {
		if t.slots[i].state != slotOccupied {
			continue
		}
		if !fn(i, t.slots[i].country) {
			return
		}
	}
}

// FindByName returns the first country, in slot order, called name.
func (t *Table) FindByName(name string) (*Country, bool) {
	var found *Country
	t.Each(func(_ int, c *Country) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

func (t *Table) Len() int { return t.count }

func (t *Table) Cap() int { return len(t.slots) }

// Reset empties every slot, tombstones included.
func (t *Table) Reset() {
	for i := range t.slots {
		t.slots[i] = slot{}
	}
	t.count = 0
}

type TableStats struct {
	Capacity   int
	Occupied   int
	Tombstones int
	Empty      int
}

func (t *Table) Stats() TableStats {
	st := TableStats{Capacity: len(t.slots)}
	for i := range t.slots {
		switch t.slots[i].state {
		case slotOccupied:
			st.Occupied++
		case slotTombstone:
			st.Tombstones++
		default:
			st.Empty++
		}
	}
	return st
}
