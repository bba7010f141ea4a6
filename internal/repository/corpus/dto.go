package corpus

import (
	"strconv"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
)

// metadataRecord is the heading context as stored in snapshots.
type metadataRecord struct {
	Chapter    string   `json:"chapter,omitempty"`
	Section    string   `json:"section,omitempty"`
	Subsection string   `json:"subsection,omitempty"`
	Level      *int     `json:"level,omitempty"`
	ChunkType  string   `json:"chunkType,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// chunkRecord is one element of the chunks snapshot. Save writes the nested
// "metadata" object; the flat layout of older snapshots is still accepted and
// the nested object wins when both are set.
type chunkRecord struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"documentId,omitempty"`
	Content    string          `json:"content"`
	Chapter    string          `json:"chapter,omitempty"`
	Section    string          `json:"section,omitempty"`
	Subsection string          `json:"subsection,omitempty"`
	Level      *int            `json:"level,omitempty"`
	ChunkType  string          `json:"chunkType,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Metadata   *metadataRecord `json:"metadata,omitempty"`
}

// vectorRecord is one element of the vectors snapshot. Content and metadata
// are denormalized copies for offline inspection; the loader ignores them.
type vectorRecord struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Content  string         `json:"content"`
	Metadata metadataRecord `json:"metadata"`
}

// statsRecord is the informational stats snapshot.
type statsRecord struct {
	TotalChunks     int            `json:"totalChunks"`
	TotalVectors    int            `json:"totalVectors"`
	TotalCharacters int            `json:"totalCharacters"`
	AvgChunkSize    int            `json:"avgChunkSize"`
	Chapters        int            `json:"chapters"`
	Sections        int            `json:"sections"`
	Subsections     int            `json:"subsections"`
	ChunksByLevel   map[string]int `json:"chunksByLevel"`
	ChunksByType    map[string]int `json:"chunksByType"`
	VectorScheme    string         `json:"vectorScheme"`
	Dimension       int            `json:"dimension"`
}

func buildMetadataRecord(c *chunk.Chunk) metadataRecord {
	level := c.Level()
	return metadataRecord{
		Chapter:    c.Chapter(),
		Section:    c.Section(),
		Subsection: c.Subsection(),
		Level:      &level,
		ChunkType:  string(c.Type()),
		Tags:       c.Tags(),
	}
}

func buildChunkRecord(c *chunk.Chunk) chunkRecord {
	meta := buildMetadataRecord(c)
	return chunkRecord{
		ID:         c.ID(),
		DocumentID: c.DocumentID(),
		Content:    c.Content(),
		Metadata:   &meta,
	}
}

func buildVectorRecord(c *chunk.Chunk, vec []float32) vectorRecord {
	return vectorRecord{
		ID:       c.ID(),
		Vector:   vec,
		Content:  c.Content(),
		Metadata: buildMetadataRecord(c),
	}
}

func buildStatsRecord(s *Summary, vectors int) statsRecord {
	byLevel := make(map[string]int, len(s.ChunksByLevel))
	for level, n := range s.ChunksByLevel {
		byLevel[levelKey(level)] = n
	}
	byType := make(map[string]int, len(s.ChunksByType))
	for t, n := range s.ChunksByType {
		byType[string(t)] = n
	}
	return statsRecord{
		TotalChunks:     s.TotalChunks,
		TotalVectors:    vectors,
		TotalCharacters: s.TotalCharacters,
		AvgChunkSize:    s.AvgChunkSize,
		Chapters:        s.Chapters,
		Sections:        s.Sections,
		Subsections:     s.Subsections,
		ChunksByLevel:   byLevel,
		ChunksByType:    byType,
		VectorScheme:    s.VectorScheme,
		Dimension:       s.Dimension,
	}
}

func levelKey(level int) string {
	return "level" + strconv.Itoa(level)
}

// parseChunkRecord hydrates a chunk without validation. Missing metadata
// fields keep zero values.
func parseChunkRecord(rec *chunkRecord, defaultDocID string) chunk.Chunk {
	meta := metadataRecord{
		Chapter:    rec.Chapter,
		Section:    rec.Section,
		Subsection: rec.Subsection,
		Level:      rec.Level,
		ChunkType:  rec.ChunkType,
		Tags:       rec.Tags,
	}
	if rec.Metadata != nil {
		meta = *rec.Metadata
	}

	docID := rec.DocumentID
	if docID == "" {
		docID = defaultDocID
	}

	level := 0
	if meta.Level != nil {
		level = *meta.Level
	}

	return chunk.Reconstruct(rec.ID, docID, rec.Content, chunk.Metadata{
		Chapter:    meta.Chapter,
		Section:    meta.Section,
		Subsection: meta.Subsection,
		Level:      level,
		Type:       chunk.Type(meta.ChunkType),
		Tags:       meta.Tags,
	})
}
