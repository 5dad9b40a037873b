package engine

import "testing"

func TestTimeSeriesAppendGrows(t *testing.T) {
	s := NewTimeSeries("GDP (current US$)", "NY.GDP")
	for i := 0; i < 25; i++ {
		s.AppendValue(float64(i))
	}

	if s.Len() != 25 {
		t.Fatalf("Expected 25 observations, got %d", s.Len())
	}
	if len(s.obs) != 40 {
		t.Errorf("Expected backing capacity 40 after two doublings, got %d", len(s.obs))
	}

	obs := s.Observations()
	if obs[0].Year != 1960 || obs[24].Year != 1984 {
		t.Errorf("Years not consecutive from 1960: first %d last %d", obs[0].Year, obs[24].Year)
	}
	for i, o := range obs {
		if o.Value != float64(i) {
			t.Fatalf("Observation %d: expected %d, got %f", i, i, o.Value)
		}
	}
}

func TestTimeSeriesMean(t *testing.T) {
	s := NewTimeSeries("x", "X")
	for _, v := range []float64{4, MissingValue, 6, MissingValue} {
		s.AppendValue(v)
	}
	if m := s.Mean(); m != 5 {
		t.Errorf("Expected mean 5, got %f", m)
	}
	if s.Valid() != 2 {
		t.Errorf("Expected 2 valid observations, got %d", s.Valid())
	}

	empty := NewTimeSeries("y", "Y")
	empty.AppendValue(MissingValue)
	if m := empty.Mean(); m != 0 {
		t.Errorf("All-missing series: expected mean 0, got %f", m)
	}
}

func TestCountrySeriesFirstMatch(t *testing.T) {
	c := NewCountry("Canada", "CAN")
	first := NewTimeSeries("first", "S1")
	second := NewTimeSeries("second", "S1")
	c.AddSeries(first)
	c.AddSeries(second)
	c.AddSeries(NewTimeSeries("other", "S2"))

	got, ok := c.Series("S1")
	if !ok || got != first {
		t.Errorf("Expected first series with code S1")
	}
	if _, ok := c.Series("S3"); ok {
		t.Error("Unexpected match for S3")
	}

	names := c.SeriesNames()
	if len(names) != 3 || names[0] != "first" || names[2] != "other" {
		t.Errorf("Series names out of order: %v", names)
	}
}

func TestValidCode(t *testing.T) {
	for code, want := range map[string]bool{
		"USA": true, "CAN": true, "usa": false, "US": false, "USAA": false, "U1A": false, "": false,
	} {
		if got := ValidCode(code); got != want {
			t.Errorf("ValidCode(%q) = %v, want %v", code, got, want)
		}
	}
}
