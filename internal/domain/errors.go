package domain

import "errors"

var (
	ErrMissingCredential  = errors.New("missing generation credential")
	ErrEmptyQuery         = errors.New("query is empty")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionCorrupt  = errors.New("collection is corrupt")
	ErrEmbeddingMismatch  = errors.New("embedder does not match collection")
)
