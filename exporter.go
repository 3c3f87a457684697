package ukf

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Exporter defines an export interface.
type Exporter interface {
	Write(*UKFEstimate) error
	Close() error
}

// StateHeaders names the CTRV state components.
var StateHeaders = []string{"px", "py", "v", "yaw", "yawd"}

// CSVExporter writes estimates to a CSV file, one line per estimate.
type CSVExporter struct {
	delimiter string
	hdlr      *os.File
}

// Close closes the file.
func (e CSVExporter) Close() (err error) {
	err = e.WriteRawLn(fmt.Sprintf("# Closing date (UTC): %s", time.Now().UTC()))
	if err != nil {
		return
	}
	return e.hdlr.Close()
}

// Write writes the estimate with its 2σ bounds and NIS to the CSV file.
func (e CSVExporter) Write(est *UKFEstimate) error {
	r := est.State().Len()
	vals := make([]string, 0, 2+r*3+1)
	vals = append(vals, fmt.Sprintf("%d", est.Timestamp()), est.Sensor().String())
	for i := 0; i < r; i++ {
		state := est.State().AtVec(i)
		twoσ := 2 * math.Sqrt(est.Covariance().At(i, i))
		vals = append(vals, fmt.Sprintf("%f", state), fmt.Sprintf("%f", state+twoσ), fmt.Sprintf("%f", state-twoσ))
	}
	vals = append(vals, fmt.Sprintf("%f", est.NIS()))
	_, err := e.hdlr.WriteString(strings.Join(vals, e.delimiter) + "\n")
	return err
}

// WriteRawLn writes a raw line to the CSV file.
func (e CSVExporter) WriteRawLn(s string) error {
	_, err := e.hdlr.WriteString(s + "\n")
	return err
}

// Name returns the path of the underlying file.
func (e CSVExporter) Name() string {
	return e.hdlr.Name()
}

// NewCSVExporter initializes a new CSV export.
func NewCSVExporter(dir, filename string) (e *CSVExporter, err error) {
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return
	}
	delimiter := ","
	// Header
	hdr := []string{"timestamp", "sensor"}
	for _, h := range StateHeaders {
		hdr = append(hdr, h, h+"+2s", h+"-2s")
	}
	hdr = append(hdr, "nis")
	if _, err = f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n%s\n", time.Now().UTC(), strings.Join(hdr, delimiter))); err != nil {
		f.Close()
		return nil, err
	}
	e = &CSVExporter{delimiter, f}
	return
}
