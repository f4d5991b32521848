package dataprocessing

import (
	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

// CorrectSeries computes the step-corrected value for every sample of one
// clock. records must be ordered by ascending MJD; jumps contribute
// independently and additively, so their relative order does not matter.
//
// Each jump adjusts every sample strictly before its epoch: a fixed offset
// of -TimeStep, plus a frequency ramp of -FreqStep*(sample MJD - jump MJD)
// (negative elapsed time, so the ramp grows with distance to the jump).
// Samples at or after the jump's epoch are untouched by that jump. The net
// effect backs the accumulated re-steppings out of the historical samples.
//
// With no jumps the returned values equal the raw ones exactly; with no
// records the result is empty.
func CorrectSeries(records []domain.ClockRecord, jumps []domain.JumpRecord) []float64 {
	corrected := make([]float64, len(records))
	for i, r := range records {
		corrected[i] = r.Value
	}
	for _, j := range jumps {
		for i, r := range records {
			mjd := float64(r.MJD)
			if mjd >= j.MJD {
				continue
			}
			corrected[i] -= j.TimeStep
			corrected[i] -= j.FreqStep * (mjd - j.MJD)
		}
	}
	return corrected
}
