// Package segment splits markdown-like text into hierarchically scoped chunks.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
)

// Default chunk size bounds, in characters.
const (
	DefaultMinChunkSize = 100
	DefaultMaxChunkSize = 700
)

// contentSplitFactor marks a closed span as force-split when its size exceeds
// contentSplitFactor * MaxChunkSize.
const contentSplitFactor = 1.5

var headingRegex = regexp.MustCompile(`^(#{1,4})\s+(.+)$`)

// Config holds segmentation settings.
type Config struct {
	MinChunkSize int
	MaxChunkSize int
	DocumentID   string
	Taxonomy     []TagGroup
}

// Segmenter turns one document into an ordered list of chunks.
type Segmenter struct {
	cfg Config
}

// New validates cfg and creates a Segmenter. A nil taxonomy selects DefaultTaxonomy.
func New(cfg Config) (*Segmenter, error) {
	if cfg.MinChunkSize <= 0 {
		return nil, fmt.Errorf("min chunk size must be positive, got %d", cfg.MinChunkSize)
	}
	if cfg.MaxChunkSize < cfg.MinChunkSize {
		return nil, fmt.Errorf("max chunk size %d is below min chunk size %d", cfg.MaxChunkSize, cfg.MinChunkSize)
	}
	if cfg.DocumentID == "" {
		return nil, fmt.Errorf("document ID is required")
	}
	if cfg.Taxonomy == nil {
		cfg.Taxonomy = DefaultTaxonomy
	}
	return &Segmenter{cfg: cfg}, nil
}

type heading struct {
	level int
	title string
}

// run holds the state of a single Segment pass.
type run struct {
	cfg    Config
	stack  []heading
	buf    []string
	size   int
	chunks []chunk.Chunk
}

// Segment walks text line by line and returns its chunks in document order.
//
// A heading closes the pending buffer (if it reached MinChunkSize) under the
// heading context in effect before it; body text is closed under the current
// context once it reaches MaxChunkSize. Trailing content shorter than
// MinChunkSize is dropped.
func (s *Segmenter) Segment(text string) ([]chunk.Chunk, error) {
	r := &run{cfg: s.cfg}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if m := headingRegex.FindStringSubmatch(line); m != nil {
			if r.size >= s.cfg.MinChunkSize {
				if err := r.close(); err != nil {
					return nil, err
				}
			}
			r.reset()
			r.push(heading{level: len(m[1]), title: strings.TrimSpace(m[2])})
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		r.buf = append(r.buf, line)
		r.size += utf8.RuneCountInString(line)

		if r.size >= s.cfg.MaxChunkSize {
			if err := r.close(); err != nil {
				return nil, err
			}
			r.reset()
		}
	}

	if r.size >= s.cfg.MinChunkSize {
		if err := r.close(); err != nil {
			return nil, err
		}
	}
	return r.chunks, nil
}

// push opens h, closing every open heading at the same or a deeper level.
func (r *run) push(h heading) {
	for len(r.stack) > 0 && r.stack[len(r.stack)-1].level >= h.level {
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.stack = append(r.stack, h)
}

func (r *run) reset() {
	r.buf = r.buf[:0]
	r.size = 0
}

func (r *run) find(level int) string {
	for _, h := range r.stack {
		if h.level == level {
			return h.title
		}
	}
	return ""
}

// close turns the pending buffer into a chunk under the current heading stack.
func (r *run) close() error {
	content := strings.TrimSpace(strings.Join(r.buf, "\n"))
	if utf8.RuneCountInString(content) < r.cfg.MinChunkSize {
		return nil
	}

	meta := r.metadata()
	meta.Tags = ExtractTags(content, r.cfg.Taxonomy)

	id := fmt.Sprintf("%s_%d", r.cfg.DocumentID, len(r.chunks))
	c, err := chunk.New(id, r.cfg.DocumentID, content, meta)
	if err != nil {
		return fmt.Errorf("close chunk: %w", err)
	}
	r.chunks = append(r.chunks, c)
	return nil
}

// metadata derives the heading context. A level-3 heading with no level-2
// parent fills the section slot so that subsection always implies section.
func (r *run) metadata() chunk.Metadata {
	l1, l2, l3 := r.find(1), r.find(2), r.find(3)

	meta := chunk.Metadata{Chapter: l1}
	switch {
	case l2 != "":
		meta.Section, meta.Subsection = l2, l3
	case l3 != "":
		meta.Section = l3
	}

	switch {
	case meta.Subsection != "":
		meta.Level = 3
	case meta.Section != "":
		meta.Level = 2
	case l1 != "":
		meta.Level = 1
	}
	if meta.Chapter == "" {
		meta.Chapter = chunk.Unclassified
	}

	switch {
	case float64(r.size) > contentSplitFactor*float64(r.cfg.MaxChunkSize):
		meta.Type = chunk.TypeContent
	case meta.Section != "":
		meta.Type = chunk.TypeSection
	default:
		meta.Type = chunk.TypeChapter
	}
	return meta
}
