package engine

// Country owns every series loaded for one country code.
type Country struct {
	Name string
	Code string

	series []*TimeSeries
}

func NewCountry(name, code string) *Country {
	return &Country{Name: name, Code: code}
}

// AddSeries keeps insertion order. Series codes may repeat; only the first is
// ever consulted by lookups.
func (c *Country) AddSeries(s *TimeSeries) {
	c.series = append(c.series, s)
}

// Series returns the first series carrying code.
func (c *Country) Series(code string) (*TimeSeries, bool) {
	for _, s := range c.series {
		if s.Code == code {
			return s, true
		}
	}
	return nil, false
}

func (c *Country) SeriesNames() []string {
	names := make([]string, len(c.series))
	for i, s := range c.series {
		names[i] = s.Name
	}
	return names
}

func (c *Country) SeriesCount() int { return len(c.series) }

// ValidCode reports whether code is three uppercase ASCII letters.
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
