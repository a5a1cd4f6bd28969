package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// OutputManager appends WindowStats rows to a single CSV file.
type OutputManager struct {
	file          *os.File
	headerWritten bool
}

// NewOutputManager opens path for telemetry CSV output. Returns nil,
// nil if path is empty (output disabled).
func NewOutputManager(path string) (*OutputManager, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry csv: %w", err)
	}
	return &OutputManager{file: f}, nil
}

// WriteTelemetry appends one WindowStats row, writing the CSV header
// on the first call.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	records := []WindowStats{stats}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close flushes and closes the output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.file.Close()
}
