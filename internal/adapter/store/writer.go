package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"citerag/config"
	"citerag/internal/domain"
)

// CollectionWriter builds a new collection in a temporary file and swaps it
// into place on Commit, so readers never observe a half-written collection.
type CollectionWriter struct {
	db      *bbolt.DB
	dir     string
	tmpPath string
	info    domain.CollectionInfo
	count   int
}

// CreateCollection starts a fresh collection in dir for vectors of the given
// embedding model and dimension.
func CreateCollection(dir, embeddingModel string, dimension int) (*CollectionWriter, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension: %d", dimension)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create collection directory: %w", err)
	}

	tmpPath := config.CollectionDBPath(dir) + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale temp collection: %w", err)
	}

	db, err := bbolt.Open(tmpPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMeta, bucketChunks, bucketVectors} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		os.Remove(tmpPath)
		return nil, err
	}

	return &CollectionWriter{
		db:      db,
		dir:     dir,
		tmpPath: tmpPath,
		info: domain.CollectionInfo{
			SchemaVersion:  CurrentSchemaVersion,
			EmbeddingModel: embeddingModel,
			Dimension:      dimension,
			Fingerprint:    EmbeddingFingerprint(embeddingModel, dimension),
		},
	}, nil
}

// Append stores chunks with their vectors, assigning insertion sequences.
// The returned chunks carry their assigned Seq.
func (w *CollectionWriter) Append(chunks []domain.Chunk, vectors [][]float32) ([]domain.Chunk, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	stored := make([]domain.Chunk, len(chunks))
	err := w.db.Update(func(tx *bbolt.Tx) error {
		chunkBucket := tx.Bucket(bucketChunks)
		vectorBucket := tx.Bucket(bucketVectors)

		for i, chunk := range chunks {
			if len(vectors[i]) != w.info.Dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", w.info.Dimension, len(vectors[i]))
			}

			seq, err := chunkBucket.NextSequence()
			if err != nil {
				return err
			}
			key := seqKey(seq)

			chunkData, err := json.Marshal(storedChunk{
				ID:     chunk.ID,
				DocID:  chunk.DocID,
				Source: chunk.Source,
				Page:   chunk.Page,
				Text:   chunk.Text,
			})
			if err != nil {
				return err
			}
			if err := chunkBucket.Put(key, chunkData); err != nil {
				return err
			}

			vectorData, err := json.Marshal(storedVector{Vector: vectors[i]})
			if err != nil {
				return err
			}
			if err := vectorBucket.Put(key, vectorData); err != nil {
				return err
			}

			chunk.Seq = seq
			stored[i] = chunk
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.count += len(chunks)
	return stored, nil
}

// Commit records the collection info and moves the collection into place,
// replacing any previous collection in the directory.
func (w *CollectionWriter) Commit() (domain.CollectionInfo, error) {
	w.info.Chunks = w.count
	w.info.CreatedAt = time.Now().UTC()

	err := w.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(w.info)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyInfo, data)
	})
	if err != nil {
		w.Abort()
		return domain.CollectionInfo{}, fmt.Errorf("failed to write collection info: %w", err)
	}

	if err := w.db.Close(); err != nil {
		os.Remove(w.tmpPath)
		return domain.CollectionInfo{}, err
	}

	final := config.CollectionDBPath(w.dir)
	if err := os.Rename(w.tmpPath, final); err != nil {
		os.Remove(w.tmpPath)
		return domain.CollectionInfo{}, fmt.Errorf("failed to move collection into %s: %w", filepath.Dir(final), err)
	}

	return w.info, nil
}

// Abort discards the partially written collection.
func (w *CollectionWriter) Abort() error {
	w.db.Close()
	if err := os.Remove(w.tmpPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
