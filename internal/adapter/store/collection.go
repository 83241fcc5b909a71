package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"citerag/config"
	"citerag/internal/domain"
)

var (
	bucketMeta    = []byte("meta")
	bucketChunks  = []byte("chunks")
	bucketVectors = []byte("vectors")
	keyInfo       = []byte("collection_info")
)

// Collection is a read-only handle on a persisted chunk collection.
// Vectors are held in memory in insertion order; chunk text is read from
// bolt on demand.
type Collection struct {
	db      *bbolt.DB
	path    string
	info    domain.CollectionInfo
	vectors []vectorEntry
	logger  *zap.Logger
}

type vectorEntry struct {
	seq    uint64
	vector []float32
}

type storedChunk struct {
	ID     string `json:"id"`
	DocID  string `json:"doc_id"`
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
	Text   string `json:"text"`
}

type storedVector struct {
	Vector []float32 `json:"v"`
}

// OpenCollection opens the collection stored in dir. It never creates or
// modifies anything on disk.
func OpenCollection(dir string, logger *zap.Logger) (*Collection, error) {
	path := config.CollectionDBPath(dir)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat collection: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		if errors.Is(err, bbolt.ErrTimeout) {
			return nil, fmt.Errorf("collection %s is locked by another process", path)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCollectionCorrupt, path, err)
	}

	c := &Collection{db: db, path: path, logger: logger}

	if err := c.loadInfo(); err != nil {
		db.Close()
		return nil, err
	}
	if err := c.loadVectors(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("collection opened",
		zap.String("path", path),
		zap.Int("chunks", len(c.vectors)),
		zap.String("embedding_model", c.info.EmbeddingModel),
		zap.Int("dimension", c.info.Dimension))

	return c, nil
}

func (c *Collection) loadInfo() error {
	return c.db.View(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketChunks, bucketVectors} {
			if tx.Bucket(name) == nil {
				return fmt.Errorf("%w: missing bucket %s", domain.ErrCollectionCorrupt, name)
			}
		}

		data := tx.Bucket(bucketMeta).Get(keyInfo)
		if data == nil {
			return fmt.Errorf("%w: missing collection info", domain.ErrCollectionCorrupt)
		}
		if err := json.Unmarshal(data, &c.info); err != nil {
			return fmt.Errorf("%w: collection info: %v", domain.ErrCollectionCorrupt, err)
		}
		if c.info.Dimension <= 0 {
			return fmt.Errorf("%w: invalid dimension %d", domain.ErrCollectionCorrupt, c.info.Dimension)
		}
		return nil
	})
}

// loadVectors reads all vectors into memory. Keys are big-endian insertion
// sequences, so bolt's key order is insertion order.
func (c *Collection) loadVectors() error {
	return c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("%w: bad vector key %x", domain.ErrCollectionCorrupt, k)
			}
			var stored storedVector
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("%w: vector %d: %v", domain.ErrCollectionCorrupt, binary.BigEndian.Uint64(k), err)
			}
			if len(stored.Vector) != c.info.Dimension {
				return fmt.Errorf("%w: vector %d has dimension %d, expected %d",
					domain.ErrCollectionCorrupt, binary.BigEndian.Uint64(k), len(stored.Vector), c.info.Dimension)
			}
			c.vectors = append(c.vectors, vectorEntry{
				seq:    binary.BigEndian.Uint64(k),
				vector: stored.Vector,
			})
			return nil
		})
	})
}

// Info returns the metadata recorded when the collection was built.
func (c *Collection) Info() domain.CollectionInfo {
	return c.info
}

// Path returns the database file path.
func (c *Collection) Path() string {
	return c.path
}

func (c *Collection) Close() error {
	return c.db.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
