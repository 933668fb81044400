package store

import (
	"context"
	"sync"

	"github.com/healthdeskco/healthdesk/pkg/llm"
)

// MemoryStore keeps conversation histories in process memory. State lives for
// the lifetime of the process only.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]llm.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string][]llm.Message)}
}

func (s *MemoryStore) Get(_ context.Context, threadID string) ([]llm.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessages(s.threads[threadID]), nil
}

func (s *MemoryStore) Put(_ context.Context, threadID string, messages []llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = cloneMessages(messages)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, threadID)
	return nil
}

func (s *MemoryStore) Threads(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
