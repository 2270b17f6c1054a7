package report

import (
	"bufio"
	"bytes"
	"testing"
	"time"
)

func TestFromBenchmark(t *testing.T) {
	res := testing.BenchmarkResult{
		N:         1000,
		T:         2 * time.Millisecond,
		MemAllocs: 3000,
		MemBytes:  96000,
	}

	got := FromBenchmark("compiled_thunk", "proto", "HelloWorld", res, []byte{0x0a, 0x04, 'E', 'x', 'e', 'c'})

	if got.NsPerOp != 2000 {
		t.Fatalf("expected 2000 ns/op, got %d", got.NsPerOp)
	}
	if got.AllocsPerOp != 3 || got.BytesPerOp != 96 {
		t.Fatalf("unexpected allocation figures: %+v", got)
	}
	if got.OpsPerSec != 500000 {
		t.Fatalf("expected 500000 ops/sec, got %v", got.OpsPerSec)
	}
	if got.Output != "0a0445786563" {
		t.Fatalf("unexpected output hex %q", got.Output)
	}
}

func TestFromBenchmarkZeroDuration(t *testing.T) {
	got := FromBenchmark("raw_reflective", "proto", "HelloWorld", testing.BenchmarkResult{}, nil)
	if got.OpsPerSec != 0 {
		t.Fatalf("expected zero ops/sec, got %v", got.OpsPerSec)
	}
}

func TestWriterEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	in := []Result{
		{Strategy: "raw_reflective", Codec: "proto", Iterations: 10, NsPerOp: 900},
		{Strategy: "compiled_thunk", Codec: "proto", Iterations: 10, NsPerOp: 300, Error: "boom"},
	}
	for _, r := range in {
		if err := w.Write(r); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		var out Result
		if err := Unmarshal(scanner.Bytes(), &out); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if out != in[lines] {
			t.Fatalf("line %d = %+v, want %+v", lines, out, in[lines])
		}
		lines++
	}
	if lines != len(in) {
		t.Fatalf("expected %d lines, got %d", len(in), lines)
	}
}

func TestMarshalOmitsEmptyError(t *testing.T) {
	data, err := Marshal(Result{Strategy: "cached_reflective"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if bytes.Contains(data, []byte(`"error"`)) {
		t.Fatalf("expected error field to be omitted, got %s", data)
	}
	if !bytes.Contains(data, []byte(`"strategy":"cached_reflective"`)) {
		t.Fatalf("expected strategy field, got %s", data)
	}
}
