package domain

// Document is the extracted text of a single source file.
type Document struct {
	// ID is a stable identifier derived from the document path.
	ID string

	// Path is the absolute path of the source file.
	Path string

	// Title is the first line of the document, if any.
	Title string

	// Content is the full extracted text.
	Content string
}

// Chunk is a contiguous slice of document text.
// Chunks are immutable once produced.
type Chunk struct {
	// Index is the position of the chunk in the produced sequence.
	Index int

	// Start is the rune offset of the chunk in the document text.
	Start int

	// End is the exclusive end offset, after boundary alignment.
	End int

	// Content is the trimmed text of text[Start:End].
	Content string
}

// Len returns the length of the chunk content in bytes.
func (c Chunk) Len() int {
	return len(c.Content)
}

// ChunkContents returns the content of each chunk, in order.
func ChunkContents(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}

// RankedChunk is a chunk selected by the relevance ranker.
// Content holds the cleaned text handed to the answer synthesizer.
type RankedChunk struct {
	Chunk

	// Score is the final relevance score after the keyword boost.
	Score float64

	// Similarity is the raw cosine similarity with the question.
	Similarity float64

	// KeywordMatches is the number of question keywords found in the chunk.
	KeywordMatches int
}
