// Package trace persists per-iteration samples as two-column CSV.
//
// A trace has a header row ("Iteration,<column>") followed by one row per
// completed iteration. Indices start at 0 and are contiguous; the writer
// refuses anything else.
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// IterationColumn is the first header field of every trace.
const IterationColumn = "Iteration"

// Value column names.
const (
	JitterColumn  = "Jitter_ns"
	LatencyColumn = "Latency_ns"
)

// ErrOutOfSequence is returned when a row index breaks the contiguous
// 0..N-1 sequence.
var ErrOutOfSequence = errors.New("trace: iteration out of sequence")

// Sample is one row of a trace.
type Sample struct {
	Iteration int
	Value     int64
}

// Writer appends samples to a trace.
type Writer struct {
	w      *csv.Writer
	closer io.Closer
	next   int
	record []string
}

// Create truncates (or creates) the file at path and writes the header.
func Create(path, column string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace %s: %w", path, err)
	}
	w, err := NewWriter(f, column)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewWriter writes a trace to out.
func NewWriter(out io.Writer, column string) (*Writer, error) {
	w := &Writer{
		w:      csv.NewWriter(out),
		record: make([]string, 2),
	}
	if err := w.w.Write([]string{IterationColumn, column}); err != nil {
		return nil, fmt.Errorf("failed to write trace header: %w", err)
	}
	return w, nil
}

// Write appends the sample for iteration i, which must be the next index.
func (w *Writer) Write(i int, v int64) error {
	if i != w.next {
		return fmt.Errorf("%w: got %d, want %d", ErrOutOfSequence, i, w.next)
	}
	w.record[0] = strconv.Itoa(i)
	w.record[1] = strconv.FormatInt(v, 10)
	if err := w.w.Write(w.record); err != nil {
		return fmt.Errorf("failed to write trace row %d: %w", i, err)
	}
	w.next++
	return nil
}

// Rows is the number of samples written.
func (w *Writer) Rows() int {
	return w.next
}

// Close flushes buffered rows and closes the underlying file, if any.
func (w *Writer) Close() error {
	w.w.Flush()
	err := w.w.Error()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to flush trace: %w", err)
	}
	return nil
}

// Trace is a fully read trace.
type Trace struct {
	Column  string
	Samples []Sample
}

// Values returns the sample values in iteration order.
func (t *Trace) Values() []int64 {
	vals := make([]int64, len(t.Samples))
	for i, s := range t.Samples {
		vals[i] = s.Value
	}
	return vals
}

// Open reads the trace at path.
func Open(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a trace and checks that its indices are contiguous.
func Read(in io.Reader) (*Trace, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = 2
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("empty trace")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header[0] != IterationColumn {
		return nil, fmt.Errorf("unexpected header %q", header[0])
	}
	t := &Trace{Column: header[1]}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		i, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad iteration %q", len(t.Samples), rec[0])
		}
		if i != len(t.Samples) {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrOutOfSequence, i, len(t.Samples))
		}
		v, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad value %q", i, rec[1])
		}
		t.Samples = append(t.Samples, Sample{Iteration: i, Value: v})
	}
	return t, nil
}
