package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
)

// column describes one fixed-width field of a record shape: a name for
// diagnostics plus the [start,end) byte range within the line.
type column struct {
	name  string
	start int
	end   int
}

// slice extracts the column's text from line. ok is false when the line is
// too short to cover the column's full extent.
func (c column) slice(line string) (string, bool) {
	if len(line) < c.end {
		return "", false
	}
	return line[c.start:c.end], true
}

// intField parses the column as a base-10 integer. The raw slice is
// returned alongside the error so callers can name the offending text.
func (c column) intField(line string) (int, string, error) {
	raw, ok := c.slice(line)
	if !ok {
		return 0, "", fmt.Errorf("%s: line too short for columns [%d,%d)", c.name, c.start, c.end)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, raw, fmt.Errorf("%s: cannot parse %q as integer", c.name, raw)
	}
	return v, raw, nil
}

// floatField parses the column as a decimal number.
func (c column) floatField(line string) (float64, string, error) {
	raw, ok := c.slice(line)
	if !ok {
		return 0, "", fmt.Errorf("%s: line too short for columns [%d,%d)", c.name, c.start, c.end)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, raw, fmt.Errorf("%s: cannot parse %q as number", c.name, raw)
	}
	return v, raw, nil
}

// textField extracts the column as whitespace-trimmed text.
func (c column) textField(line string) (string, error) {
	raw, ok := c.slice(line)
	if !ok {
		return "", fmt.Errorf("%s: line too short for columns [%d,%d)", c.name, c.start, c.end)
	}
	return strings.TrimSpace(raw), nil
}

// Clock-value line layout. Up to clockSlots fixed-width slots follow the
// MJD and laboratory code; slot i starts at slotBase+i*slotStride, with the
// clock code in the slot's first slotCodeWidth columns and the value in
// [slotValueStart,slotValueEnd) of the slot (one separator column between).
var (
	clockMJDCol = column{"MJD", 0, 5}
	clockLabCol = column{"labcode", 6, 11}
)

const (
	clockSlots     = 5
	slotBase       = 12
	slotStride     = 18
	slotCodeWidth  = 7
	slotValueStart = 8
	slotValueEnd   = 17
)

// slotColumns returns the clock-code and value columns of slot i.
func slotColumns(i int) (code, value column) {
	start := slotBase + i*slotStride
	code = column{"clock code", start, start + slotCodeWidth}
	value = column{"clock value", start + slotValueStart, start + slotValueEnd}
	return code, value
}

// Jump line layout.
var (
	jumpMJDCol     = column{"MJD", 0, 8}
	jumpClockCol   = column{"clock code", 9, 16}
	jumpTimeCol    = column{"time step", 17, 26}
	jumpFreqCol    = column{"freq step", 27, 36}
	jumpAcronymCol = column{"lab acronym", 40, 44}
	jumpLabCol     = column{"labcode", 45, 50}
)

// firstError returns the first non-nil error of errs.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
