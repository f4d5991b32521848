package dataprocessing

import "regexp"

// Anchored patterns for the two BIPM clock-file record shapes. Both checks
// are attempted on every line; a line may match neither (ignored), and a
// well-formed file never produces a line matching both.
var (
	// Clock-value lines open with a 5-digit MJD, a 5-digit laboratory code,
	// then the first clock slot (7-digit clock code and a signed decimal).
	clockLineRe = regexp.MustCompile(`^\d{5}\s+\d{5}\s+\d{7}\s+[+-]?\d+\.\d+`)

	// Jump lines open with an MJD of exactly 5 integer digits and an
	// optional fractional part, a 7-digit clock code, the signed time and
	// frequency steps, the laboratory acronym and its 5-digit code.
	jumpLineRe = regexp.MustCompile(`^\d{5}(?:\.\d+)?\s+\d{7}\s+[+-]?\d+\.\d+\s+[+-]?\d+\.\d+\s+\w+\s+\d{5}`)

	// Laboratory acronyms are expected to be all uppercase letters. Used as
	// a format-hygiene check only, never to reject a record.
	acronymRe = regexp.MustCompile(`^[A-Z]+$`)
)

// IsClockLine reports whether the line has the clock-value record shape.
func IsClockLine(line string) bool {
	return clockLineRe.MatchString(line)
}

// IsJumpLine reports whether the line has the jump record shape.
func IsJumpLine(line string) bool {
	return jumpLineRe.MatchString(line)
}
