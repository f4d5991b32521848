package dataprocessing

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

// Parser extracts clock and jump records from BIPM clock files. A single
// Parser is reused across the files of a batch; records accumulate into the
// caller-supplied collections so multi-file results merge in file order.
type Parser struct {
	logger *slog.Logger
	diags  *Collector
}

// NewParser creates a parser reporting into the given collector.
func NewParser(logger *slog.Logger, diags *Collector) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, diags: diags}
}

// ParseFile reads one clock file line by line and appends extracted records
// to records and jumps. Malformed data produces diagnostics and skips the
// smallest possible scope; the file is always read to the end. The returned
// error covers I/O failures only (the caller decides whether a missing file
// is fatal to its batch).
func (p *Parser) ParseFile(path string, records *[]domain.ClockRecord, jumps *[]domain.JumpRecord) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open clock file: %w", err)
	}
	defer f.Close()

	p.logger.Debug("parsing clock file", slog.String("file", path))

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line, ok := decodeASCII(scanner.Bytes())
		if !ok {
			p.diags.Warnf(path, lineNo, "non-ASCII byte in line: %q", scanner.Bytes())
		}
		// Both shapes are attempted on every line; a well-formed file never
		// matches both.
		if IsClockLine(line) {
			p.parseClockLine(path, lineNo, line, records)
		}
		if IsJumpLine(line) {
			p.parseJumpLine(path, lineNo, line, jumps)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// decodeASCII validates that b is 7-bit clean. When it is not, ok is false
// and the returned text has the offending bytes dropped (lossy recovery),
// mirroring a strict-then-lossy ASCII decode.
func decodeASCII(b []byte) (text string, ok bool) {
	clean := true
	for _, c := range b {
		if c >= utf8.RuneSelf {
			clean = false
			break
		}
	}
	if clean {
		return string(b), true
	}
	recovered := make([]byte, 0, len(b))
	for _, c := range b {
		if c < utf8.RuneSelf {
			recovered = append(recovered, c)
		}
	}
	return string(recovered), false
}

// parseClockLine extracts the shared MJD/labcode prefix and up to five
// fixed-width clock slots. A failing slot is skipped alone; a failing
// prefix is reported but does not block slot extraction, since the line
// already matched the clock shape.
func (p *Parser) parseClockLine(file string, lineNo int, line string, records *[]domain.ClockRecord) {
	mjd, _, errMJD := clockMJDCol.intField(line)
	labCode, _, errLab := clockLabCol.intField(line)
	if err := firstError(errMJD, errLab); err != nil {
		p.diags.Errorf(file, lineNo, "cannot read MJD or labcode: %v", err)
	}

	for i := 0; i < clockSlots; i++ {
		codeCol, valueCol := slotColumns(i)
		if len(line) < valueCol.end {
			// Lines legitimately carry fewer than five clocks; a short line
			// ends the slot walk without any diagnostic.
			break
		}
		code, rawCode, errCode := codeCol.intField(line)
		value, rawValue, errValue := valueCol.floatField(line)
		if errCode != nil || errValue != nil {
			p.diags.Errorf(file, lineNo, "slot %d: cannot read clock code %q or value %q", i+1, rawCode, rawValue)
			continue
		}
		*records = append(*records, domain.ClockRecord{
			MJD:       mjd,
			LabCode:   labCode,
			ClockCode: code,
			Value:     value,
		})
	}
}

// parseJumpLine extracts one jump record. Unlike clock slots, any field
// failure discards the whole record. The acronym shape check applies only
// to successfully parsed records and never rejects one.
func (p *Parser) parseJumpLine(file string, lineNo int, line string, jumps *[]domain.JumpRecord) {
	mjd, _, errMJD := jumpMJDCol.floatField(line)
	clockCode, _, errClock := jumpClockCol.intField(line)
	timeStep, _, errTime := jumpTimeCol.floatField(line)
	freqStep, _, errFreq := jumpFreqCol.floatField(line)
	acronym, errAcr := jumpAcronymCol.textField(line)
	labCode, _, errLab := jumpLabCol.intField(line)

	if err := firstError(errMJD, errClock, errTime, errFreq, errAcr, errLab); err != nil {
		p.diags.Errorf(file, lineNo, "cannot read jump record: %v", err)
		return
	}

	if !acronymRe.MatchString(acronym) {
		p.diags.Warnf(file, lineNo, "unusual lab acronym %q", acronym)
	}

	*jumps = append(*jumps, domain.JumpRecord{
		MJD:        mjd,
		LabCode:    labCode,
		LabAcronym: acronym,
		ClockCode:  clockCode,
		TimeStep:   timeStep,
		FreqStep:   freqStep,
	})
}
