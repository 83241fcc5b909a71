package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"go.etcd.io/bbolt"

	"citerag/internal/domain"
)

// Search finds the k nearest chunks to the query by cosine distance.
// Brute force over the in-memory vectors; equal distances keep insertion order.
func (c *Collection) Search(query []float32, k int) ([]domain.RetrievedChunk, error) {
	if len(query) != c.info.Dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", c.info.Dimension, len(query))
	}

	if k <= 0 || len(c.vectors) == 0 {
		return nil, nil
	}

	type scored struct {
		seq      uint64
		distance float64
	}

	scores := make([]scored, len(c.vectors))
	for i, entry := range c.vectors {
		scores[i] = scored{seq: entry.seq, distance: CosineDistance(query, entry.vector)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].distance < scores[j].distance
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]domain.RetrievedChunk, 0, k)
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		for _, s := range scores[:k] {
			data := b.Get(seqKey(s.seq))
			if data == nil {
				return fmt.Errorf("%w: chunk %d has a vector but no text", domain.ErrCollectionCorrupt, s.seq)
			}
			var stored storedChunk
			if err := json.Unmarshal(data, &stored); err != nil {
				return fmt.Errorf("%w: chunk %d: %v", domain.ErrCollectionCorrupt, s.seq, err)
			}
			results = append(results, domain.RetrievedChunk{
				Chunk: domain.Chunk{
					ID:     stored.ID,
					Seq:    s.seq,
					DocID:  stored.DocID,
					Source: stored.Source,
					Page:   stored.Page,
					Text:   stored.Text,
				},
				Distance: s.distance,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Count returns the number of vectors in the collection.
func (c *Collection) Count() (int, error) {
	return len(c.vectors), nil
}

// CosineDistance returns 1 - cosine similarity. Zero vectors are at distance 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
