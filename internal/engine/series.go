package engine

// MissingValue marks a year with no observation. A genuine reading of -1 is
// indistinguishable from a missing one.
const MissingValue = -1.0

// BaseYear is the year assigned to the first value of every series.
const BaseYear = 1960

const initialSeriesCap = 10

type Observation struct {
	Year  int
	Value float64
}

// TimeSeries is an append-only run of yearly observations for one series code.
type TimeSeries struct {
	Name string
	Code string

	obs []Observation
	n   int
}

func NewTimeSeries(name, code string) *TimeSeries {
	return &TimeSeries{
		Name: name,
		Code: code,
		obs:  make([]Observation, initialSeriesCap),
	}
}

// Append stores one observation, doubling the backing array when full.
func (s *TimeSeries) Append(year int, value float64) {
	if s.n >= len(s.obs) {
		s.grow()
	}
	s.obs[s.n] = Observation{Year: year, Value: value}
	s.n++
}

// AppendValue appends value under the year following the last one.
func (s *TimeSeries) AppendValue(value float64) {
	s.Append(BaseYear+s.n, value)
}

func (s *TimeSeries) grow() {
	size := len(s.obs) * 2
	if size == 0 {
		size = initialSeriesCap
	}
	next := make([]Observation, size)
	copy(next, s.obs[:s.n])
	s.obs = next
}

func (s *TimeSeries) Len() int { return s.n }

// Observations returns a copy of the stored observations in insertion order.
func (s *TimeSeries) Observations() []Observation {
	out := make([]Observation, s.n)
	copy(out, s.obs[:s.n])
	return out
}

// Valid counts observations that are not MissingValue.
func (s *TimeSeries) Valid() int {
	count := 0
	for _, o := range s.obs[:s.n] {
		if o.Value != MissingValue {
			count++
		}
	}
	return count
}

// Mean averages the non-missing values. A series with none averages to 0.
func (s *TimeSeries) Mean() float64 {
	var sum float64
	count := 0
	for _, o := range s.obs[:s.n] {
		if o.Value != MissingValue {
			sum += o.Value
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
