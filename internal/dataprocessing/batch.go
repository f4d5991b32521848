package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"github.com/TheBIPM/check-bipm-data/internal/infrastructure"
	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

// Batch drives one checking run over a list of clock files. It owns the
// shared accumulator collections; files are processed strictly sequentially
// so records and diagnostics keep file order. A Batch is single-use and not
// safe for concurrent calls.
type Batch struct {
	logger  *slog.Logger
	diags   *Collector
	metrics *infrastructure.Metrics
	parser  *Parser

	records []domain.ClockRecord
	jumps   []domain.JumpRecord
}

// NewBatch creates a batch driver. logger defaults to slog.Default; metrics
// may be nil.
func NewBatch(logger *slog.Logger, diags *Collector, metrics *infrastructure.Metrics) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	if diags == nil {
		diags = NewCollector(logger, metrics)
	}
	return &Batch{
		logger:  logger,
		diags:   diags,
		metrics: metrics,
		parser:  NewParser(logger, diags),
	}
}

// Run parses every file in order. A missing or unreadable file is reported
// and skipped; the batch continues with the remaining files.
func (b *Batch) Run(ctx context.Context, files []string) error {
	for _, file := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		before := len(b.records)
		beforeJumps := len(b.jumps)

		if err := b.parser.ParseFile(file, &b.records, &b.jumps); err != nil {
			b.diags.Errorf(file, 0, "file not found or unreadable: %v", err)
			if b.metrics != nil {
				b.metrics.FilesMissing.Inc()
			}
			continue
		}

		if b.metrics != nil {
			b.metrics.FilesProcessed.Inc()
			b.metrics.ClockRecordsTotal.Add(float64(len(b.records) - before))
			b.metrics.JumpRecordsTotal.Add(float64(len(b.jumps) - beforeJumps))
		}
		b.logger.InfoContext(ctx, "checked clock file",
			slog.String("file", file),
			slog.Int("clock_records", len(b.records)-before),
			slog.Int("jump_records", len(b.jumps)-beforeJumps),
		)
	}
	return nil
}

// Records returns all clock records accumulated so far, in file order.
func (b *Batch) Records() []domain.ClockRecord {
	return b.records
}

// Jumps returns all jump records accumulated so far, in file order.
func (b *Batch) Jumps() []domain.JumpRecord {
	return b.jumps
}

// Diagnostics returns the diagnostics recorded so far, in emission order.
func (b *Batch) Diagnostics() []Diagnostic {
	return b.diags.Entries()
}

// Dataset groups the accumulated records by clock code and derives the six
// series per clock.
func (b *Batch) Dataset() *domain.Dataset {
	return BuildDataset(b.records, b.jumps)
}

// BuildDataset groups records and jumps by clock code, orders each group by
// ascending MJD, applies step correction, and derives the level, first- and
// second-difference series for both the raw and corrected variants.
//
// Clocks are enumerated from the value records: a jump for a clock without
// any measurement stays in the flat jump collection but yields no series
// (nothing to correct or difference).
func BuildDataset(records []domain.ClockRecord, jumps []domain.JumpRecord) *domain.Dataset {
	byClock := make(map[int][]domain.ClockRecord)
	jumpsByClock := make(map[int][]domain.JumpRecord)
	for _, r := range records {
		byClock[r.ClockCode] = append(byClock[r.ClockCode], r)
	}
	for _, j := range jumps {
		jumpsByClock[j.ClockCode] = append(jumpsByClock[j.ClockCode], j)
	}

	clocks := make([]int, 0, len(byClock))
	for code := range byClock {
		clocks = append(clocks, code)
	}
	sort.Ints(clocks)

	dataset := &domain.Dataset{
		Records: records,
		Jumps:   jumps,
		Clocks:  clocks,
	}

	for _, code := range clocks {
		recs := byClock[code]
		clockJumps := jumpsByClock[code]

		// Stable sorts keep file order among equal MJDs, for reproducible
		// output.
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].MJD < recs[j].MJD })
		sort.SliceStable(clockJumps, func(i, j int) bool { return clockJumps[i].MJD < clockJumps[j].MJD })

		mjds := make([]float64, len(recs))
		raw := make([]float64, len(recs))
		for i, r := range recs {
			mjds[i] = float64(r.MJD)
			raw[i] = r.Value
		}
		corrected := CorrectSeries(recs, clockJumps)

		dataset.Series = append(dataset.Series, DeriveSeries(code, false, mjds, raw)...)
		dataset.Series = append(dataset.Series, DeriveSeries(code, true, mjds, corrected)...)
	}
	return dataset
}
