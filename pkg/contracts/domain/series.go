package domain

// SeriesKind identifies the derivation order of a clock series.
type SeriesKind string

const (
	// SeriesLevel is the undifferenced value series.
	SeriesLevel SeriesKind = "level"
	// SeriesFirstDiff is the first-difference series.
	SeriesFirstDiff SeriesKind = "1diff"
	// SeriesSecondDiff is the second-difference series.
	SeriesSecondDiff SeriesKind = "2diff"
)

// String returns the string representation of the series kind.
func (k SeriesKind) String() string {
	return string(k)
}

// SeriesPoint is one sample of a derived series. Points whose value is
// undefined (the leading entries of a differenced series) carry Valid=false
// and a zero value so the type stays JSON-safe.
type SeriesPoint struct {
	MJD   float64 `json:"mjd"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ClockSeries is one derived series for one clock. Every series of a clock
// shares the same MJD index; Corrected distinguishes the step-corrected
// variant from the raw one.
type ClockSeries struct {
	ClockCode int           `json:"clock_code"`
	Kind      SeriesKind    `json:"kind"`
	Corrected bool          `json:"corrected"`
	Points    []SeriesPoint `json:"points"`
}

// Dataset is the structured output of one batch run: the flat record
// collections in file order plus the six derived series per distinct clock.
type Dataset struct {
	Records []ClockRecord `json:"records"`
	Jumps   []JumpRecord  `json:"jumps"`
	Clocks  []int         `json:"clocks"`
	Series  []ClockSeries `json:"series"`
}

// SeriesFor returns the series matching kind and corrected flag for the
// given clock code, or nil if the clock is unknown.
func (d *Dataset) SeriesFor(clockCode int, kind SeriesKind, corrected bool) *ClockSeries {
	for i := range d.Series {
		s := &d.Series[i]
		if s.ClockCode == clockCode && s.Kind == kind && s.Corrected == corrected {
			return s
		}
	}
	return nil
}

// HasClock reports whether the dataset contains the given clock code.
func (d *Dataset) HasClock(clockCode int) bool {
	for _, c := range d.Clocks {
		if c == clockCode {
			return true
		}
	}
	return false
}
