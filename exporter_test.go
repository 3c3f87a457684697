package ukf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImplementsExporter(t *testing.T) {
	implements := func(Exporter) {}
	implements(new(CSVExporter))
}

func TestCSVExportFail(t *testing.T) {
	_, err := NewCSVExporter("/noNoNoNo/", "temp.csv")
	if err == nil {
		t.Fatal("no issue when trying to create a file in a missing directory")
	}
}

func TestCSVExport(t *testing.T) {
	dir := t.TempDir()
	ce, err := NewCSVExporter(dir, "temp.csv")
	if err != nil {
		t.Fatalf("could not create file %s", err)
	}
	kf, err := NewUKF(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []Measurement{
		LidarMeasurement{Timestamp: 0, Px: 1, Py: 1},
		RadarMeasurement{Timestamp: 50000, Rho: 1.45, Phi: 0.8, RhoDot: 0.1},
	} {
		est, err := kf.ProcessMeasurement(m)
		if err != nil {
			t.Fatal(err)
		}
		if err = ce.Write(est); err != nil {
			t.Fatalf("could not write estimate to file %s", err)
		}
	}
	if err = ce.Close(); err != nil {
		t.Fatalf("could not close file %s", err)
	}
	if ce.Name() != filepath.Join(dir, "temp.csv") {
		t.Fatalf("unexpected file name %s", ce.Name())
	}

	data, err := os.ReadFile(ce.Name())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "# Creation date") || !strings.HasPrefix(lines[4], "# Closing date") {
		t.Fatalf("missing dates:\n%s", data)
	}
	header := strings.Split(lines[1], ",")
	if len(header) != 2+3*StateDim+1 || header[2] != "px" || header[len(header)-1] != "nis" {
		t.Fatalf("unexpected header %v", header)
	}
	for i, line := range lines[2:4] {
		if cols := strings.Split(line, ","); len(cols) != len(header) {
			t.Fatalf("line %d has %d columns instead of %d", i, len(cols), len(header))
		}
	}
	if !strings.HasPrefix(lines[2], "0,lidar,1.000000,1.300000,0.700000,") || !strings.HasSuffix(lines[2], ",NaN") {
		t.Fatalf("unexpected initialization line %s", lines[2])
	}
	if !strings.HasPrefix(lines[3], "50000,radar,") {
		t.Fatalf("unexpected radar line %s", lines[3])
	}
}
