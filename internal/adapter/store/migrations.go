package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"citerag/internal/domain"
	"citerag/internal/port"
)

// CurrentSchemaVersion is the current collection layout version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

// EmbeddingFingerprint identifies the vector space a collection was built in.
func EmbeddingFingerprint(model string, dimension int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", model, dimension)))
	return hex.EncodeToString(hash[:8])
}

// CheckCompatibility reports whether queries embedded by embedder can be
// searched against a collection described by info.
func CheckCompatibility(info domain.CollectionInfo, embedder port.Embedder) error {
	switch {
	case info.SchemaVersion == 0:
		return fmt.Errorf("%w: missing schema version", domain.ErrCollectionCorrupt)
	case info.SchemaVersion > CurrentSchemaVersion:
		return fmt.Errorf("%w: collection created by newer version (v%d > v%d)",
			domain.ErrCollectionCorrupt, info.SchemaVersion, CurrentSchemaVersion)
	}

	if info.EmbeddingModel != embedder.ModelName() {
		return fmt.Errorf("%w: collection built with %q, configured embedder is %q",
			domain.ErrEmbeddingMismatch, info.EmbeddingModel, embedder.ModelName())
	}
	if info.Dimension != embedder.Dimension() {
		return fmt.Errorf("%w: collection dimension %d, embedder dimension %d",
			domain.ErrEmbeddingMismatch, info.Dimension, embedder.Dimension())
	}
	if info.Fingerprint != "" && info.Fingerprint != EmbeddingFingerprint(info.EmbeddingModel, info.Dimension) {
		return fmt.Errorf("%w: fingerprint mismatch", domain.ErrCollectionCorrupt)
	}
	return nil
}
