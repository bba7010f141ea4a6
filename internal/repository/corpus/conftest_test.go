package corpus

import (
	"context"
	"sync"

	"github.com/kailas-cloud/chunkdex/internal/db"
)

// memStore is an in-memory snapshot store for tests.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func (m *memStore) put(key, value string) {
	m.data[key] = []byte(value)
}

var testPaths = Paths{Chunks: "chunks.json", Vectors: "vectors.json", Stats: "stats.json"}

const testChunks = `[
  {"id": "doc_1", "content": "gene linkage", "chapter": "Linkage", "section": "Crossing over", "level": 2, "chunkType": "section"},
  {"id": "doc_2", "content": "mutation basics", "metadata": {"chapter": "Mutation", "level": 1, "chunkType": "chapter", "tags": ["mutation"]}},
  {"content": "no id here"},
  "not an object"
]`

const testVectors = `[
  {"id": "doc_1", "vector": [1, 0, 0]},
  {"id": "doc_2", "vector": [0, 1, 0]},
  {"id": "orphan", "vector": [0, 0, 1]},
  {"vector": [1, 1, 1]},
  {"id": "doc_3"}
]`
