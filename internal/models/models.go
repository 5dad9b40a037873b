package models

type LoadRequest struct {
	Path string `json:"path"`
}

type LoadSummary struct {
	Path      string `json:"path"`
	Rows      int    `json:"rows"`
	Countries int    `json:"countries"`
	Skipped   int    `json:"skipped"`
	Checksum  string `json:"checksum"`
	ElapsedMS int64  `json:"elapsed_ms"`

	// Incomplete marks a load that replaced the data but ran out of slots.
	Incomplete bool   `json:"incomplete,omitempty"`
	Error      string `json:"error,omitempty"`
}

type LookupResult struct {
	Code   string `json:"code"`
	Slot   int    `json:"index"`
	Probes int    `json:"searches"`
}

type CountryInfo struct {
	Name   string   `json:"name"`
	Code   string   `json:"code"`
	Series []string `json:"series"`
}

type BuildEntry struct {
	Country string  `json:"country"`
	Mean    float64 `json:"mean"`
}

type BuildResult struct {
	Series  string       `json:"series"`
	Entries []BuildEntry `json:"entries"`
}

type RangeResult struct {
	Series string  `json:"series"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type NamesResult struct {
	Series    string   `json:"series"`
	Countries []string `json:"countries"`
}

type SeriesItem struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Countries    int    `json:"countries"`
	Observations int    `json:"observations"`
	Valid        int    `json:"valid"`
}

type StatsResult struct {
	Capacity    int    `json:"capacity"`
	Countries   int    `json:"countries"`
	Tombstones  int    `json:"tombstones"`
	Empty       int    `json:"empty"`
	BuiltSeries string `json:"built_series,omitempty"`
	Entries     int    `json:"entries"`
	Source      string `json:"source,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
