package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
)

// Summary is the informational breakdown of one segmentation pass.
type Summary struct {
	TotalChunks     int
	TotalCharacters int
	AvgChunkSize    int
	Chapters        int
	Sections        int
	Subsections     int
	ChunksByLevel   map[int]int
	ChunksByType    map[chunk.Type]int
}

// SummarizeDocument summarizes the chunks of text. Chapter, section and
// subsection counts cover every level 1-3 heading in text, including headings
// whose body produced no chunk.
func SummarizeDocument(text string, chunks []chunk.Chunk) Summary {
	s := Summarize(utf8.RuneCountInString(text), chunks)
	s.Chapters, s.Sections, s.Subsections = CountHeadings(text)
	return s
}

// CountHeadings counts level 1, 2 and 3 heading lines in text.
func CountHeadings(text string) (chapters, sections, subsections int) {
	for _, line := range strings.Split(text, "\n") {
		m := headingRegex.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
		if m == nil {
			continue
		}
		switch len(m[1]) {
		case 1:
			chapters++
		case 2:
			sections++
		case 3:
			subsections++
		}
	}
	return chapters, sections, subsections
}

// Summarize counts chunks by level and type and the distinct headings the
// chunks carry. sourceChars is the length of the segmented text in characters.
// Used when only chunks are available, as on reindex.
func Summarize(sourceChars int, chunks []chunk.Chunk) Summary {
	s := Summary{
		TotalChunks:     len(chunks),
		TotalCharacters: sourceChars,
		ChunksByLevel:   map[int]int{0: 0, 1: 0, 2: 0, 3: 0},
		ChunksByType: map[chunk.Type]int{
			chunk.TypeChapter: 0, chunk.TypeSection: 0, chunk.TypeContent: 0,
		},
	}

	chapters := make(map[string]struct{})
	sections := make(map[[2]string]struct{})
	subsections := make(map[[3]string]struct{})
	var contentChars int

	for i := range chunks {
		c := &chunks[i]
		contentChars += utf8.RuneCountInString(c.Content())
		s.ChunksByLevel[c.Level()]++
		s.ChunksByType[c.Type()]++

		chapters[c.Chapter()] = struct{}{}
		if c.Section() != "" {
			sections[[2]string{c.Chapter(), c.Section()}] = struct{}{}
		}
		if c.Subsection() != "" {
			subsections[[3]string{c.Chapter(), c.Section(), c.Subsection()}] = struct{}{}
		}
	}

	s.Chapters = len(chapters)
	s.Sections = len(sections)
	s.Subsections = len(subsections)
	if len(chunks) > 0 {
		s.AvgChunkSize = contentChars / len(chunks)
	}
	return s
}
