package domain

import "time"

type Document struct {
	ID      string
	Path    string
	ModTime time.Time
	Kind    string
}

// Chunk is a unit of stored text. Seq is the insertion sequence inside the
// collection and decides ordering between equally distant results.
type Chunk struct {
	ID     string `json:"id"`
	Seq    uint64 `json:"seq"`
	DocID  string `json:"doc_id"`
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
	Text   string `json:"text"`
}

type RetrievedChunk struct {
	Chunk    Chunk
	Distance float64
}

// Source is a retrieved chunk as shown next to an answer.
type Source struct {
	Marker string `json:"marker"`
	Rank   int    `json:"rank"`
	Path   string `json:"path"`
	Page   int    `json:"page,omitempty"`
	Text   string `json:"text"`
}

// Answer is the outcome of one question. Exactly one of Text or Warning is set.
type Answer struct {
	Query   string   `json:"query"`
	Text    string   `json:"text,omitempty"`
	Warning string   `json:"warning,omitempty"`
	Sources []Source `json:"sources,omitempty"`
}

type CollectionInfo struct {
	SchemaVersion  int       `json:"schema_version"`
	EmbeddingModel string    `json:"embedding_model"`
	Dimension      int       `json:"dimension"`
	Fingerprint    string    `json:"fingerprint"`
	Chunks         int       `json:"chunks"`
	CreatedAt      time.Time `json:"created_at"`
}
