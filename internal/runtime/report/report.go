// Package report writes per-strategy benchmark results as JSON lines.
package report

import (
	"encoding/hex"
	"io"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
)

var defaultConfig = sonic.ConfigStd

// Result is one measured strategy.
type Result struct {
	Strategy    string  `json:"strategy"`
	Codec       string  `json:"codec"`
	Handler     string  `json:"handler"`
	Iterations  int     `json:"iterations"`
	NsPerOp     int64   `json:"ns_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	// Output is the hex encoding of the bytes one iteration produced.
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// FromBenchmark converts a testing.BenchmarkResult into a Result.
func FromBenchmark(strategy, codec, handler string, res testing.BenchmarkResult, output []byte) Result {
	r := Result{
		Strategy:    strategy,
		Codec:       codec,
		Handler:     handler,
		Iterations:  res.N,
		NsPerOp:     res.NsPerOp(),
		AllocsPerOp: res.AllocsPerOp(),
		BytesPerOp:  res.AllocedBytesPerOp(),
		Output:      hex.EncodeToString(output),
	}
	if r.NsPerOp > 0 {
		r.OpsPerSec = 1e9 / float64(r.NsPerOp)
	}
	return r
}

// Writer emits one JSON object per line. It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc sonic.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: defaultConfig.NewEncoder(w)}
}

func (w *Writer) Write(r Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(r)
}

// Marshal encodes a single result without a trailing newline.
func Marshal(r Result) ([]byte, error) {
	return defaultConfig.Marshal(r)
}

// Unmarshal decodes a line produced by Writer.
func Unmarshal(data []byte, r *Result) error {
	return defaultConfig.Unmarshal(data, r)
}
