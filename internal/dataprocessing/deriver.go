package dataprocessing

import (
	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

// FirstDifferences returns element-wise deltas of values: out[i] equals
// values[i] - values[i-1]. The leading element has no predecessor; the
// returned mask marks which entries are defined.
func FirstDifferences(values []float64) ([]float64, []bool) {
	diffs := make([]float64, len(values))
	valid := make([]bool, len(values))
	for i := 1; i < len(values); i++ {
		diffs[i] = values[i] - values[i-1]
		valid[i] = true
	}
	return diffs, valid
}

// SecondDifferences returns the first differences of the first differences,
// with the leading two entries undefined.
func SecondDifferences(values []float64) ([]float64, []bool) {
	first, _ := FirstDifferences(values)
	second, valid := FirstDifferences(first)
	if len(valid) > 1 {
		valid[1] = false
		second[1] = 0
	}
	return second, valid
}

// DeriveSeries produces the level, first-difference and second-difference
// series for one variant (raw or corrected) of a clock's values. mjds and
// values must be equally long and ordered by ascending MJD; all three
// returned series share that MJD index.
func DeriveSeries(clockCode int, corrected bool, mjds []float64, values []float64) []domain.ClockSeries {
	level := make([]domain.SeriesPoint, len(values))
	for i, v := range values {
		level[i] = domain.SeriesPoint{MJD: mjds[i], Value: v, Valid: true}
	}

	firstVals, firstValid := FirstDifferences(values)
	secondVals, secondValid := SecondDifferences(values)

	return []domain.ClockSeries{
		{ClockCode: clockCode, Kind: domain.SeriesLevel, Corrected: corrected, Points: level},
		{ClockCode: clockCode, Kind: domain.SeriesFirstDiff, Corrected: corrected, Points: maskedPoints(mjds, firstVals, firstValid)},
		{ClockCode: clockCode, Kind: domain.SeriesSecondDiff, Corrected: corrected, Points: maskedPoints(mjds, secondVals, secondValid)},
	}
}

// maskedPoints pairs values with their MJD index, zeroing undefined entries
// so the series stays JSON-safe.
func maskedPoints(mjds []float64, values []float64, valid []bool) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, len(values))
	for i := range values {
		p := domain.SeriesPoint{MJD: mjds[i], Valid: valid[i]}
		if valid[i] {
			p.Value = values[i]
		}
		points[i] = p
	}
	return points
}
