package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

// Fixture builders producing exactly aligned fixed-column lines.

func slotText(code int, value float64) string {
	return fmt.Sprintf("%07d %+9.6f", code, value)
}

func clockLine(mjd, lab int, slots ...string) string {
	return fmt.Sprintf("%05d %05d ", mjd, lab) + strings.Join(slots, " ")
}

func jumpLine(mjd float64, clock int, timeStep, freqStep float64, acronym string, lab int) string {
	return fmt.Sprintf("%.2f %07d %+9.6f %+9.6f    %-4s %05d", mjd, clock, timeStep, freqStep, acronym, lab)
}

func writeFixture(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clocks.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestParser() (*Parser, *Collector) {
	diags := NewCollector(quietLogger(), nil)
	return NewParser(quietLogger(), diags), diags
}

func TestParseFileFiveSlots(t *testing.T) {
	line := clockLine(59000, 100,
		slotText(1111111, 0.000001),
		slotText(2222222, -0.000002),
		slotText(3333333, 0.000003),
		slotText(4444444, -0.000004),
		slotText(5555555, 0.000005),
	)
	path := writeFixture(t, line)

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	require.Len(t, records, 5)
	assert.Empty(t, jumps)
	assert.Empty(t, diags.Entries())

	codes := []int{1111111, 2222222, 3333333, 4444444, 5555555}
	values := []float64{0.000001, -0.000002, 0.000003, -0.000004, 0.000005}
	for i, r := range records {
		assert.Equal(t, 59000, r.MJD)
		assert.Equal(t, 100, r.LabCode)
		assert.Equal(t, codes[i], r.ClockCode)
		assert.InDelta(t, values[i], r.Value, 1e-12)
	}
}

func TestParseFileShortLineSkipsTrailingSlots(t *testing.T) {
	line := clockLine(59000, 100,
		slotText(1111111, 0.000001),
		slotText(2222222, -0.000002),
	)
	path := writeFixture(t, line)

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	// Missing slots are not an error; only malformed slots are.
	require.Len(t, records, 2)
	assert.Empty(t, diags.Entries())
}

func TestParseFileBadSlotSkipsThatSlotOnly(t *testing.T) {
	line := clockLine(59000, 100,
		slotText(1111111, 0.000001),
		slotText(2222222, -0.000002),
		slotText(3333333, 0.000003),
	)
	// Corrupt the second slot's clock code (columns 30-36).
	corrupted := line[:30] + "22x2222" + line[37:]
	path := writeFixture(t, corrupted)

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	require.Len(t, records, 2)
	assert.Equal(t, 1111111, records[0].ClockCode)
	assert.Equal(t, 3333333, records[1].ClockCode)

	require.Len(t, diags.Entries(), 1)
	d := diags.Entries()[0]
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, 1, d.Line)
	assert.Contains(t, d.Message, "slot 2")
	assert.Contains(t, d.Message, `"22x2222"`)
}

func TestParseFileBadLabcodeDoesNotAbortLine(t *testing.T) {
	// Extra whitespace shifts the labcode out of its fixed columns, so the
	// line matches the clock shape but columns [6,11) hold only spaces.
	line := "59000      12345 0001234 +0.000001"
	path := writeFixture(t, line)

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	// The prefix failure is reported and slot extraction still runs; the
	// shifted slot columns are malformed too, so no records come out.
	assert.Empty(t, records)
	require.NotEmpty(t, diags.Entries())
	assert.Contains(t, diags.Entries()[0].Message, "MJD or labcode")
	for _, d := range diags.Entries() {
		assert.Equal(t, SeverityError, d.Severity)
	}
}

func TestParseFileJump(t *testing.T) {
	path := writeFixture(t, jumpLine(59000.5, 1234, 0.000500, -0.000250, "OPMT", 100))

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	assert.Empty(t, records)
	assert.Empty(t, diags.Entries())
	require.Len(t, jumps, 1)

	j := jumps[0]
	assert.InDelta(t, 59000.5, j.MJD, 1e-9)
	assert.Equal(t, 1234, j.ClockCode)
	assert.Equal(t, 100, j.LabCode)
	assert.Equal(t, "OPMT", j.LabAcronym)
	assert.InDelta(t, 0.0005, j.TimeStep, 1e-12)
	assert.InDelta(t, -0.00025, j.FreqStep, 1e-12)
}

func TestParseFileJumpFieldFailureSkipsWholeRecord(t *testing.T) {
	// Compact spacing matches the jump shape but leaves the line too short
	// for the fixed acronym and labcode columns.
	line := "59000.50 0001234 +0.000500 +0.000000 OPMT 00100"
	path := writeFixture(t, line)

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	assert.Empty(t, jumps)
	require.Len(t, diags.Entries(), 1)
	assert.Equal(t, SeverityError, diags.Entries()[0].Severity)
	assert.Contains(t, diags.Entries()[0].Message, "jump record")
}

func TestParseFileAcronymWarning(t *testing.T) {
	path := writeFixture(t, jumpLine(59000.5, 1234, 0.000500, 0.0, "opmt", 100))

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	// Shape check only: the record is still ingested.
	require.Len(t, jumps, 1)
	assert.Equal(t, "opmt", jumps[0].LabAcronym)

	require.Len(t, diags.Entries(), 1)
	assert.Equal(t, SeverityWarning, diags.Entries()[0].Severity)
	assert.Contains(t, diags.Entries()[0].Message, "acronym")
}

func TestParseFileNonASCIIRecovered(t *testing.T) {
	line := clockLine(59000, 100, slotText(1234567, 0.000001))
	raw := append([]byte(line), []byte(" caf\xe9")...)
	path := filepath.Join(t.TempDir(), "clocks.txt")
	require.NoError(t, os.WriteFile(path, append(raw, '\n'), 0644))

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	// Exactly one warning, and the recovered text still parses.
	require.Len(t, diags.Entries(), 1)
	assert.Equal(t, SeverityWarning, diags.Entries()[0].Severity)
	require.Len(t, records, 1)
	assert.Equal(t, 1234567, records[0].ClockCode)
}

func TestParseFileIgnoresForeignLines(t *testing.T) {
	path := writeFixture(t, "# comment", "LAB 1234 something", "")

	parser, diags := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	require.NoError(t, parser.ParseFile(path, &records, &jumps))

	assert.Empty(t, records)
	assert.Empty(t, jumps)
	assert.Empty(t, diags.Entries())
}

func TestParseFileDeterministic(t *testing.T) {
	path := writeFixture(t,
		clockLine(59000, 100, slotText(1111111, 0.000001), slotText(2222222, -0.000002)),
		jumpLine(59000.5, 1111111, 0.000500, 0.0, "OPMT", 100),
		clockLine(59001, 100, slotText(1111111, 0.000002)),
	)

	parse := func() ([]domain.ClockRecord, []domain.JumpRecord) {
		parser, _ := newTestParser()
		var records []domain.ClockRecord
		var jumps []domain.JumpRecord
		require.NoError(t, parser.ParseFile(path, &records, &jumps))
		return records, jumps
	}

	records1, jumps1 := parse()
	records2, jumps2 := parse()
	assert.Equal(t, records1, records2)
	assert.Equal(t, jumps1, jumps2)
}

func TestParseFileMissingFile(t *testing.T) {
	parser, _ := newTestParser()
	var records []domain.ClockRecord
	var jumps []domain.JumpRecord
	err := parser.ParseFile(filepath.Join(t.TempDir(), "absent.txt"), &records, &jumps)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
