package domain

// ClockRecord represents a single clock offset measurement extracted from a
// clock-value line. One line packs up to five clocks sharing the same MJD
// and laboratory code.
type ClockRecord struct {
	MJD       int     `json:"mjd"`
	LabCode   int     `json:"lab_code"`
	ClockCode int     `json:"clock_code"`
	Value     float64 `json:"value"` // UTC(k)-clock offset, ns
}

// JumpRecord represents a discrete step correction (time and/or frequency)
// applied to one clock at a given epoch.
type JumpRecord struct {
	MJD        float64 `json:"mjd"`
	LabCode    int     `json:"lab_code"`
	LabAcronym string  `json:"lab_acronym"`
	ClockCode  int     `json:"clock_code"`
	TimeStep   float64 `json:"time_step"`
	FreqStep   float64 `json:"freq_step"`
}

// ClockData groups one clock's measurements and jump events, both ordered by
// ascending MJD. Ordering is established by the batch driver before
// correction or differencing; duplicate or non-contiguous MJDs are valid.
type ClockData struct {
	ClockCode int           `json:"clock_code"`
	Records   []ClockRecord `json:"records"`
	Jumps     []JumpRecord  `json:"jumps"`
}

// IsValid checks that a clock record carries plausible identifiers.
func (r ClockRecord) IsValid() bool {
	return r.MJD > 0 && r.LabCode >= 0 && r.ClockCode > 0
}

// IsValid checks that a jump record carries plausible identifiers.
func (j JumpRecord) IsValid() bool {
	return j.MJD > 0 && j.LabCode >= 0 && j.ClockCode > 0
}
