package trace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriter_Format(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, JitterColumn)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range []int64{512, -87, 0} {
		if err := w.Write(i, v); err != nil {
			t.Fatalf("Write(%d) error = %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	want := "Iteration,Jitter_ns\n0,512\n1,-87\n2,0\n"
	if buf.String() != want {
		t.Errorf("trace = %q, want %q", buf.String(), want)
	}
	if w.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", w.Rows())
	}
}

func TestWriter_OutOfSequence(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
	}{
		{name: "gap", indices: []int{0, 2}},
		{name: "repeat", indices: []int{0, 0}},
		{name: "not from zero", indices: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := NewWriter(&bytes.Buffer{}, LatencyColumn)
			var err error
			for _, i := range tt.indices {
				if err = w.Write(i, 1); err != nil {
					break
				}
			}
			if !errors.Is(err, ErrOutOfSequence) {
				t.Errorf("error = %v, want ErrOutOfSequence", err)
			}
		})
	}
}

func TestCreate_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.csv")
	if err := os.WriteFile(path, []byte("stale contents\nfrom an older run\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := Create(path, JitterColumn)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := w.Write(0, 7); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "Iteration,Jitter_ns\n0,7\n" {
		t.Errorf("file = %q", data)
	}
}

func TestCreate_BadDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "x.csv"), JitterColumn)
	if err == nil || !strings.Contains(err.Error(), "failed to open trace") {
		t.Errorf("Create() error = %v", err)
	}
}

func TestOpen_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal_latency.csv")
	w, err := Create(path, LatencyColumn)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		_ = w.Write(i, int64(1000+i))
	}
	_ = w.Close()

	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if tr.Column != LatencyColumn {
		t.Errorf("Column = %q", tr.Column)
	}
	vals := tr.Values()
	if len(vals) != 5 || vals[0] != 1000 || vals[4] != 1004 {
		t.Errorf("Values() = %v", vals)
	}
}

func TestRead_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "wrong header", data: "Index,Jitter_ns\n0,1\n"},
		{name: "gap", data: "Iteration,Jitter_ns\n0,1\n2,1\n"},
		{name: "bad value", data: "Iteration,Jitter_ns\n0,fast\n"},
		{name: "bad index", data: "Iteration,Jitter_ns\nzero,1\n"},
		{name: "extra column", data: "Iteration,Jitter_ns\n0,1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.data)); err == nil {
				t.Errorf("Read(%q) should fail", tt.data)
			}
		})
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	tr, err := Read(strings.NewReader("Iteration,Latency_ns\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(tr.Samples) != 0 {
		t.Errorf("Samples = %v, want none", tr.Samples)
	}
}
