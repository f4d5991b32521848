package dataprocessing

import (
	"fmt"
	"log/slog"

	"github.com/TheBIPM/check-bipm-data/internal/infrastructure"
)

// Severity classifies a diagnostic entry.
type Severity string

const (
	// SeverityWarning marks findings that never reject data (encoding
	// recovery, acronym shape).
	SeverityWarning Severity = "warning"
	// SeverityError marks findings that skip a slot, record or file.
	SeverityError Severity = "error"
)

// Diagnostic is one parse-time finding tied to its source location.
// Line numbers are 1-based; 0 marks file-level findings.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
}

// Collector accumulates diagnostics in emission order and mirrors every
// entry to the structured logger. A single Collector is shared across the
// files of a batch so the entries preserve file-processing order.
type Collector struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	entries []Diagnostic
}

// NewCollector creates a diagnostics collector. logger defaults to
// slog.Default; metrics may be nil.
func NewCollector(logger *slog.Logger, metrics *infrastructure.Metrics) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger, metrics: metrics}
}

// Warnf records a warning diagnostic.
func (c *Collector) Warnf(file string, line int, format string, args ...any) {
	c.add(SeverityWarning, file, line, fmt.Sprintf(format, args...))
}

// Errorf records an error diagnostic.
func (c *Collector) Errorf(file string, line int, format string, args ...any) {
	c.add(SeverityError, file, line, fmt.Sprintf(format, args...))
}

func (c *Collector) add(sev Severity, file string, line int, msg string) {
	c.entries = append(c.entries, Diagnostic{Severity: sev, File: file, Line: line, Message: msg})

	attrs := []any{slog.String("file", file)}
	if line > 0 {
		attrs = append(attrs, slog.Int("line", line))
	}
	switch sev {
	case SeverityWarning:
		c.logger.Warn(msg, attrs...)
	default:
		c.logger.Error(msg, attrs...)
	}

	if c.metrics != nil {
		c.metrics.DiagnosticsTotal.WithLabelValues(string(sev)).Inc()
	}
}

// Entries returns all recorded diagnostics in emission order.
func (c *Collector) Entries() []Diagnostic {
	return c.entries
}

// Count returns the number of diagnostics with the given severity.
func (c *Collector) Count(sev Severity) int {
	n := 0
	for _, d := range c.entries {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
