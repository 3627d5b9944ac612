package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Sample is one layer's blend state at one frame.
type Sample struct {
	Frame      uint64  `csv:"frame"`
	Elapsed    float32 `csv:"elapsed"`
	Mode       string  `csv:"mode"`
	Layer      string  `csv:"layer"`
	Progress   float32 `csv:"progress"`
	ImageMix   float32 `csv:"image_mix"`
	Visibility float32 `csv:"visibility"`
}

// Recorder buffers samples and writes them as CSV. Every controls how many
// frames pass between recorded frames.
type Recorder struct {
	w             io.Writer
	every         uint64
	pending       []Sample
	headerWritten bool
	written       int
}

func NewRecorder(w io.Writer, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{w: w, every: uint64(every)}
}

// Due reports whether frame should be recorded.
func (r *Recorder) Due(frame uint64) bool {
	return r != nil && frame%r.every == 0
}

func (r *Recorder) Add(s Sample) {
	r.pending = append(r.pending, s)
}

// Flush writes pending samples; the first flush also writes the header.
func (r *Recorder) Flush() error {
	if r == nil || len(r.pending) == 0 {
		return nil
	}
	var err error
	if !r.headerWritten {
		err = gocsv.Marshal(r.pending, r.w)
		r.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(r.pending, r.w)
	}
	if err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	r.written += len(r.pending)
	r.pending = r.pending[:0]
	return nil
}

// Written counts samples flushed so far.
func (r *Recorder) Written() int {
	return r.written
}

// ReadSamples parses a trace written by Recorder.
func ReadSamples(rd io.Reader) ([]Sample, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(rd, &samples); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return samples, nil
}
