package result

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
)

func TestNew(t *testing.T) {
	c := chunk.Reconstruct("doc_1", "doc", "hello", chunk.Metadata{Chapter: "Ch1", Type: chunk.TypeChapter})
	r := New(c, 0.95)

	if r.ID() != "doc_1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Score() != 0.95 {
		t.Errorf("Score() = %f", r.Score())
	}
	if r.Content() != "hello" {
		t.Errorf("Content() = %q", r.Content())
	}
}

func TestBuildContext(t *testing.T) {
	a := chunk.Reconstruct("a", "doc", "first", chunk.Metadata{Chapter: "Ch1", Section: "Sec1"})
	b := chunk.Reconstruct("b", "doc", "second", chunk.Metadata{})

	got := BuildContext([]Result{New(a, 0.9), New(b, 0.8)})
	want := "[source 1: Ch1 - Sec1]\nfirst" + contextSeparator + "[source 2: document doc]\nsecond"
	if got != want {
		t.Errorf("BuildContext() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("BuildContext(nil) = %q, want empty", got)
	}
}

func TestBuildContext_ChapterOnly(t *testing.T) {
	a := chunk.Reconstruct("a", "doc", "body", chunk.Metadata{Chapter: "Ch1"})
	got := BuildContext([]Result{New(a, 1)})
	if !strings.HasPrefix(got, "[source 1: Ch1 - ]") {
		t.Errorf("BuildContext() = %q", got)
	}
}
