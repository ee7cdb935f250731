package browser

import (
	_ "embed"
	"time"
)

//go:embed styles.js
var mobileStyles string

//go:embed extract.js
var extractScript string

// Table is an HTML table lifted out of the page.
type Table struct {
	Caption string     `json:"caption"`
	Header  []string   `json:"header"`
	Rows    [][]string `json:"rows"`
}

// Series is one Chart.js dataset.
type Series struct {
	Kind   string    `json:"kind"`
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Bar reports whether the series came from a bar-style chart.
func (s Series) Bar() bool {
	return s.Kind == "bar" || s.Kind == "horizontalBar"
}

// Max returns the largest value in the series, or 0 when empty.
func (s Series) Max() float64 {
	var m float64
	for _, v := range s.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// Snapshot is a terminal-friendly reading of the current document.
type Snapshot struct {
	URL    string   `json:"url"`
	Title  string   `json:"title"`
	Lines  []string `json:"lines"`
	Tables []Table  `json:"tables"`
	Charts []Series `json:"charts"`
	// Bytes is the serialized document size.
	Bytes   int       `json:"bytes"`
	TakenAt time.Time `json:"-"`
}

// Empty reports whether the snapshot has nothing to show.
func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Lines) == 0 && len(s.Tables) == 0 && len(s.Charts) == 0)
}
