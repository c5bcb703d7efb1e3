package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"go.uber.org/multierr"

	"github.com/pthm-cable/reach/config"
)

// csvFile is an output CSV whose header is written with the first record.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

// write appends records, emitting the header only on the first call.
func write[T any](c *csvFile, records []T) error {
	if len(records) == 0 {
		return nil
	}
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	iterations csvFile
	solves     csvFile
	summaries  csvFile
	perf       csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  *csvFile
	}{
		{"iterations.csv", &om.iterations},
		{"solves.csv", &om.solves},
		{"summaries.csv", &om.summaries},
		{"perf.csv", &om.perf},
	}
	for _, file := range files {
		f, err := os.Create(filepath.Join(dir, file.name))
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("creating %s: %w", file.name, err), om.Close())
		}
		file.dst.f = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteIterations appends iteration records to iterations.csv.
func (om *OutputManager) WriteIterations(records []IterationRecord) error {
	if om == nil {
		return nil
	}
	if err := write(&om.iterations, records); err != nil {
		return fmt.Errorf("writing iterations: %w", err)
	}
	return nil
}

// WriteSolve appends a solve record to solves.csv.
func (om *OutputManager) WriteSolve(rec SolveRecord) error {
	if om == nil {
		return nil
	}
	if err := write(&om.solves, []SolveRecord{rec}); err != nil {
		return fmt.Errorf("writing solve: %w", err)
	}
	return nil
}

// WriteSummary appends a window summary to summaries.csv.
func (om *OutputManager) WriteSummary(s SolveSummary) error {
	if om == nil {
		return nil
	}
	if err := write(&om.summaries, []SolveSummary{s}); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := write(&om.perf, []PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var err error
	for _, f := range []*os.File{om.iterations.f, om.solves.f, om.summaries.f, om.perf.f} {
		if f != nil {
			err = multierr.Append(err, f.Close())
		}
	}
	return err
}
