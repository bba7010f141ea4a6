package chunkdex

import (
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
)

// Chunk is one retrievable unit of the textbook.
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Chapter    string
	Section    string
	Subsection string
	Level      int
	Type       string // chapter, section or content
	Tags       []string
}

// Hit is a chunk with its cosine similarity to the query.
type Hit struct {
	Chunk
	Score float64
}

// Stats reports corpus counts.
type Stats struct {
	TotalChunks  int
	TotalVectors int
	Chapters     []string
	Fallback     bool
}

// Summary describes a build.
type Summary struct {
	TotalChunks     int
	TotalCharacters int
	AvgChunkSize    int
	Chapters        int
	Sections        int
	Subsections     int
	ChunksByLevel   map[int]int
	ChunksByType    map[string]int
	VectorScheme    string
	Dimension       int
}

func chunkFromDomain(c *chunk.Chunk) Chunk {
	return Chunk{
		ID:         c.ID(),
		DocumentID: c.DocumentID(),
		Content:    c.Content(),
		Chapter:    c.Chapter(),
		Section:    c.Section(),
		Subsection: c.Subsection(),
		Level:      c.Level(),
		Type:       string(c.Type()),
		Tags:       c.Tags(),
	}
}

func hitsFromResults(results []result.Result) []Hit {
	hits := make([]Hit, len(results))
	for i := range results {
		c := results[i].Chunk()
		hits[i] = Hit{Chunk: chunkFromDomain(&c), Score: results[i].Score()}
	}
	return hits
}

func summaryFromCorpus(s *corpus.Summary) Summary {
	byType := make(map[string]int, len(s.ChunksByType))
	for t, n := range s.ChunksByType {
		byType[string(t)] = n
	}
	return Summary{
		TotalChunks:     s.TotalChunks,
		TotalCharacters: s.TotalCharacters,
		AvgChunkSize:    s.AvgChunkSize,
		Chapters:        s.Chapters,
		Sections:        s.Sections,
		Subsections:     s.Subsections,
		ChunksByLevel:   s.ChunksByLevel,
		ChunksByType:    byType,
		VectorScheme:    s.VectorScheme,
		Dimension:       s.Dimension,
	}
}
