package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Store owns the country table and the build projection. It is the single
// mutable context every command operates on and is not safe for concurrent
// use.
type Store struct {
	table      *Table
	projection *Projection

	source   string
	checksum uint64

	Logger *zap.Logger
}

// NewStore returns an empty store whose table has capacity slots.
func NewStore(capacity int) *Store {
	return &Store{
		table:      NewTable(capacity),
		projection: NewProjection(),
		Logger:     zap.NewNop(),
	}
}

func (s *Store) WithLogger(log *zap.Logger) {
	s.Logger = log.With(zap.String("component", "store"))
}

// LoadResult summarises a wholesale load.
type LoadResult struct {
	Rows      int
	Countries int
	Skipped   int
	Checksum  uint64
	Elapsed   time.Duration
}

// LoadDataset replaces the store contents with ds.
func (s *Store) LoadDataset(ds *Dataset) (LoadResult, error) {
	res, err := s.Load(ds.Rows)
	s.source = ds.Path
	s.checksum = ds.Checksum
	res.Checksum = ds.Checksum
	return res, err
}

// LoadFile reads path and replaces the store contents with it. A file that
// cannot be read or parsed leaves the store untouched.
func (s *Store) LoadFile(path string) (LoadResult, error) {
	ds, err := ReadDataset(path)
	if err != nil {
		return LoadResult{}, err
	}
	return s.LoadDataset(ds)
}

// Load discards the table and projection, then adds one series per row,
// creating a country the first time its code is seen. Loading stops at the
// first country that cannot be placed; what was placed before stays.
func (s *Store) Load(rows []Row) (LoadResult, error) {
	start := time.Now()
	s.table.Reset()
	s.projection.Reset()
	s.source = ""
	s.checksum = 0

	var res LoadResult
	for _, r := range rows {
		if !ValidCode(r.CountryCode) {
			res.Skipped++
			continue
		}
		c, ok := s.table.Lookup(r.CountryCode)
		if !ok {
			c = NewCountry(r.CountryName, r.CountryCode)
			if _, err := s.table.Insert(c); err != nil {
				res.Countries = s.table.Len()
				res.Elapsed = time.Since(start)
				s.Logger.Warn("load stopped", zap.String("code", r.CountryCode), zap.Error(err))
				return res, fmt.Errorf("load: %w", err)
			}
		}
		c.AddSeries(newSeries(r))
		res.Rows++
	}
	res.Countries = s.table.Len()
	res.Elapsed = time.Since(start)

	s.Logger.Info("load complete",
		zap.Int("rows", res.Rows),
		zap.Int("countries", res.Countries),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// Insert adds one new country built from every row in rows carrying code.
// When a build is active the projection is extended with it.
func (s *Store) Insert(code string, rows []Row) error {
	if !ValidCode(code) {
		return fmt.Errorf("insert %q: %w", code, ErrInvalidCode)
	}
	if pos, _ := s.table.Search(code); pos != -1 {
		return fmt.Errorf("insert %s: %w", code, ErrDuplicate)
	}

	var c *Country
	for _, r := range RowsForCode(rows, code) {
		if c == nil {
			c = NewCountry(r.CountryName, r.CountryCode)
		}
		c.AddSeries(newSeries(r))
	}
	if c == nil {
		return fmt.Errorf("insert %s: no rows: %w", code, ErrNotFound)
	}

	pos, err := s.table.Insert(c)
	if err != nil {
		return err
	}
	extended := s.projection.Append(c)
	s.Logger.Debug("country inserted",
		zap.String("code", code),
		zap.Int("slot", pos),
		zap.Int("series", c.SeriesCount()),
		zap.Bool("projection_extended", extended),
	)
	return nil
}

// Remove deletes the country stored under code. The projection is left as is.
func (s *Store) Remove(code string) bool {
	ok := s.table.Remove(code)
	if ok {
		s.Logger.Debug("country removed", zap.String("code", code))
	}
	return ok
}

// Search returns the slot holding code (-1 if absent) and the probes spent.
func (s *Store) Search(code string) (int, int) {
	return s.table.Search(code)
}

// Build materialises the means of series code for every country.
func (s *Store) Build(code string) (int, error) {
	n := s.projection.Build(s.table, code)
	s.Logger.Debug("projection built", zap.String("series", code), zap.Int("entries", n))
	if n == 0 {
		return 0, fmt.Errorf("build %s: %w", code, ErrEmptyProjection)
	}
	return n, nil
}

func (s *Store) Range() (float64, float64, error) {
	lo, hi, ok := s.projection.Range()
	if !ok {
		return 0, 0, ErrEmptyProjection
	}
	return lo, hi, nil
}

func (s *Store) Threshold(value float64, rel Relation) ([]string, error) {
	names := s.projection.Threshold(value, rel)
	if len(names) == 0 {
		return nil, ErrEmptyProjection
	}
	return names, nil
}

func (s *Store) Extremes(which Extreme) ([]string, error) {
	names := s.projection.Extremes(which)
	if len(names) == 0 {
		return nil, ErrEmptyProjection
	}
	return names, nil
}

// RemoveByName removes the first country called name from the table and every
// projection entry with that name. It reports false when the table has no
// such country, in which case nothing changes.
func (s *Store) RemoveByName(name string) bool {
	c, ok := s.table.FindByName(name)
	if !ok {
		return false
	}
	removed := s.table.Remove(c.Code)
	s.projection.RemoveByName(name)
	return removed
}

// CountryInfo describes one stored country.
type CountryInfo struct {
	Name   string
	Code   string
	Series []string
}

func (s *Store) Describe(name string) (CountryInfo, error) {
	c, ok := s.table.FindByName(name)
	if !ok {
		return CountryInfo{}, fmt.Errorf("describe %q: %w", name, ErrNotFound)
	}
	return CountryInfo{Name: c.Name, Code: c.Code, Series: c.SeriesNames()}, nil
}

// Country returns the country stored under code.
func (s *Store) Country(code string) (*Country, bool) {
	return s.table.Lookup(code)
}

// Projection exposes the current build for read-only consumers.
func (s *Store) Projection() *Projection { return s.projection }

type Stats struct {
	Table       TableStats
	Countries   int
	BuiltSeries string
	Entries     int
	Source      string
	Checksum    uint64
}

func (s *Store) Stats() Stats {
	return Stats{
		Table:       s.table.Stats(),
		Countries:   s.table.Len(),
		BuiltSeries: s.projection.SeriesCode(),
		Entries:     s.projection.Len(),
		Source:      s.source,
		Checksum:    s.checksum,
	}
}
