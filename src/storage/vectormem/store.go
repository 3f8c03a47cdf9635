// Package vectormem implements the engine's vector memory store as a flat,
// exact nearest-neighbor index over fixed-dimension vectors, persisted as two
// artifacts on local disk: a binary vector file and a JSON metadata map.
package vectormem

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

const (
	indexFileName = "index.bin"
	metaFileName  = "memory.json"
)

// ShapeMismatchError is returned by Add when the vector does not match the
// store's fixed embedding dimension. This fails loudly: accepting the vector
// would corrupt the index layout.
type ShapeMismatchError struct {
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: expected %d, got %d", e.Want, e.Got)
}

// Store is an append-only vector memory store. Identifiers are sequential
// and equal to the entry's position; they are never reused or deleted.
//
// Writes are serialized by a single-writer lock; reads may run concurrently
// with each other.
type Store struct {
	mu sync.RWMutex

	dim     int
	vectors [][]float32
	meta    map[string]engine.MemoryMetadata

	indexPath string
	metaPath  string
}

// NewStore opens the store rooted at dir, loading both artifacts if they
// exist and initializing empty state otherwise.
func NewStore(dir string, dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create memory dir: %w", err)
	}

	s := &Store{
		dim:       dim,
		meta:      make(map[string]engine.MemoryMetadata),
		indexPath: filepath.Join(dir, indexFileName),
		metaPath:  filepath.Join(dir, metaFileName),
	}

	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	if err := s.loadMeta(); err != nil {
		return nil, err
	}
	return s, nil
}

// Add appends the vector with its metadata, stamps the creation timestamp
// and durably persists both artifacts before returning the assigned id.
func (s *Store) Add(vector []float32, meta engine.MemoryMetadata) (int, error) {
	if len(vector) != s.dim {
		return 0, &ShapeMismatchError{Want: s.dim, Got: len(vector)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := len(s.vectors)
	meta.Timestamp = time.Now().Unix()

	s.vectors = append(s.vectors, vector)
	s.meta[strconv.Itoa(id)] = meta

	if err := s.persistLocked(); err != nil {
		// roll back the in-memory append so a retry reuses the same id
		s.vectors = s.vectors[:id]
		delete(s.meta, strconv.Itoa(id))
		return 0, err
	}
	return id, nil
}

// Search returns up to topK nearest entries by squared L2 distance, ordered
// by ascending distance. Identifiers present in the index but missing from
// metadata are skipped as torn writes.
func (s *Store) Search(vector []float32, topK int) ([]engine.MemoryHit, error) {
	if len(vector) != s.dim {
		return nil, &ShapeMismatchError{Want: s.dim, Got: len(vector)}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 || topK <= 0 {
		return []engine.MemoryHit{}, nil
	}

	type candidate struct {
		id   int
		dist float64
	}
	candidates := make([]candidate, 0, len(s.vectors))
	for id, v := range s.vectors {
		candidates = append(candidates, candidate{id: id, dist: squaredL2(vector, v)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

	hits := make([]engine.MemoryHit, 0, topK)
	for _, c := range candidates {
		meta, ok := s.meta[strconv.Itoa(c.id)]
		if !ok {
			continue
		}
		hits = append(hits, engine.MemoryHit{ID: c.id, Distance: c.dist, Meta: meta})
		if len(hits) == topK {
			break
		}
	}
	return hits, nil
}

// Len reports the number of stored vectors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// persistLocked writes both artifacts via write-to-temp-then-rename so a
// crash mid-write never leaves a partially updated file behind.
func (s *Store) persistLocked() error {
	if err := s.writeIndex(); err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}
	if err := s.writeMeta(); err != nil {
		return fmt.Errorf("failed to persist metadata: %w", err)
	}
	return nil
}

// Index layout: uint32 dim, uint32 count, then count*dim little-endian
// float32 values.
func (s *Store) writeIndex() error {
	buf := make([]byte, 8+len(s.vectors)*s.dim*4)
	binary.LittleEndian.PutUint32(buf[0:], uint32(s.dim))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(s.vectors)))

	off := 8
	for _, v := range s.vectors {
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return atomicWrite(s.indexPath, buf)
}

func (s *Store) writeMeta() error {
	data, err := json.MarshalIndent(s.meta, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(s.metaPath, data)
}

func (s *Store) loadIndex() error {
	data, err := os.ReadFile(s.indexPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	if len(data) < 8 {
		return fmt.Errorf("index file too short")
	}

	dim := int(binary.LittleEndian.Uint32(data[0:]))
	count := int(binary.LittleEndian.Uint32(data[4:]))
	if dim != s.dim {
		return &ShapeMismatchError{Want: s.dim, Got: dim}
	}
	if len(data) < 8+count*dim*4 {
		return fmt.Errorf("index file truncated: want %d vectors", count)
	}

	s.vectors = make([][]float32, 0, count)
	off := 8
	for i := 0; i < count; i++ {
		v := make([]float32, dim)
		for j := 0; j < dim; j++ {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		s.vectors = append(s.vectors, v)
	}
	return nil
}

func (s *Store) loadMeta() error {
	data, err := os.ReadFile(s.metaPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(data, &s.meta); err != nil {
		return fmt.Errorf("failed to parse metadata: %w", err)
	}
	return nil
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
