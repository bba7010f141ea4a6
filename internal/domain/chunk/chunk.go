// Package chunk defines the chunk value object: one retrievable span of a
// document with its heading context.
package chunk

import (
	"fmt"
	"strings"
)

// Unclassified is the chapter assigned to chunks of a document without level-1 headings.
const Unclassified = "unclassified"

// MaxLevel is the deepest heading level recorded in chunk metadata.
const MaxLevel = 3

// Type classifies how a chunk was closed.
type Type string

// Chunk type constants.
const (
	// TypeChapter is a chunk bounded by headings with no section active.
	TypeChapter Type = "chapter"
	// TypeSection is a chunk bounded by headings inside a section.
	TypeSection Type = "section"
	// TypeContent is a chunk force-split for size.
	TypeContent Type = "content"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == TypeChapter || t == TypeSection || t == TypeContent
}

// Metadata is the heading context and classification of a chunk.
type Metadata struct {
	Chapter    string
	Section    string
	Subsection string
	Level      int
	Type       Type
	Tags       []string
}

// Validate checks the heading hierarchy: subsection implies section, section implies chapter.
func (m Metadata) Validate() error {
	if m.Subsection != "" && m.Section == "" {
		return fmt.Errorf("subsection %q without section", m.Subsection)
	}
	if m.Section != "" && m.Chapter == "" {
		return fmt.Errorf("section %q without chapter", m.Section)
	}
	if m.Level < 0 || m.Level > MaxLevel {
		return fmt.Errorf("level must be between 0 and %d, got %d", MaxLevel, m.Level)
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid chunk type: %q", m.Type)
	}
	return nil
}

// HasTag reports whether the metadata carries the given tag.
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Chunk is a contiguous span of source text (immutable value object).
type Chunk struct {
	id         string
	documentID string
	content    string
	meta       Metadata
}

// New validates and creates a Chunk. Content is trimmed and must be non-empty.
func New(id, documentID, content string, meta Metadata) (Chunk, error) {
	if id == "" {
		return Chunk{}, fmt.Errorf("chunk ID is required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Chunk{}, fmt.Errorf("chunk %q: content is required", id)
	}
	if err := meta.Validate(); err != nil {
		return Chunk{}, fmt.Errorf("chunk %q: %w", id, err)
	}
	meta.Tags = cloneTags(meta.Tags)
	return Chunk{id: id, documentID: documentID, content: content, meta: meta}, nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(id, documentID, content string, meta Metadata) Chunk {
	return Chunk{id: id, documentID: documentID, content: content, meta: meta}
}

// ID returns the chunk identifier.
func (c *Chunk) ID() string { return c.id }

// DocumentID returns the parent document (corpus generation) identifier.
func (c *Chunk) DocumentID() string { return c.documentID }

// Content returns the trimmed chunk text.
func (c *Chunk) Content() string { return c.content }

// Metadata returns a copy of the chunk metadata.
func (c *Chunk) Metadata() Metadata {
	m := c.meta
	m.Tags = cloneTags(c.meta.Tags)
	return m
}

// Chapter returns the chapter heading.
func (c *Chunk) Chapter() string { return c.meta.Chapter }

// Section returns the section heading (may be empty).
func (c *Chunk) Section() string { return c.meta.Section }

// Subsection returns the subsection heading (may be empty).
func (c *Chunk) Subsection() string { return c.meta.Subsection }

// Level returns the depth of the deepest active heading (0-3).
func (c *Chunk) Level() int { return c.meta.Level }

// Type returns how the chunk was closed.
func (c *Chunk) Type() Type { return c.meta.Type }

// Tags returns a copy of the taxonomy tags.
func (c *Chunk) Tags() []string { return cloneTags(c.meta.Tags) }

// HasTag reports whether the chunk carries the given tag.
func (c *Chunk) HasTag(tag string) bool { return c.meta.HasTag(tag) }

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	c := make([]string, len(tags))
	copy(c, tags)
	return c
}
