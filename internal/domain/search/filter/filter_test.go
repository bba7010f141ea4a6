package filter

import (
	"testing"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
)

func TestFilter_Match(t *testing.T) {
	meta := chunk.Metadata{Chapter: "Ch1", Section: "Sec1", Tags: []string{"gene"}}
	c := chunk.Reconstruct("doc_0", "doc", "body", meta)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty matches all", Filter{}, true},
		{"chapter match", New("Ch1", ""), true},
		{"chapter mismatch", New("Ch2", ""), false},
		{"chapter is exact", New("ch1", ""), false},
		{"tag match", New("", "gene"), true},
		{"tag mismatch", New("", "cell"), false},
		{"both match", New("Ch1", "gene"), true},
		{"one of two fails", New("Ch1", "cell"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(meta); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
			if got := tt.filter.MatchChunk(&c); got != tt.want {
				t.Errorf("MatchChunk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	if !New("", "").IsEmpty() {
		t.Error("expected empty filter")
	}
	if New("Ch1", "").IsEmpty() {
		t.Error("expected non-empty filter")
	}
}
