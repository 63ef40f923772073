package oracle

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrRequestNotFound = errors.New("oracle request not found")

// RequestStore persists oracle request records for correlation.
type RequestStore interface {
	Create(ctx context.Context, req *Request) error
	Get(ctx context.Context, requestID string) (*Request, error)
	MarkFulfilled(ctx context.Context, requestID string) error
}

// MemoryStore keeps request records in memory. Used in tests and by the
// local dev oracle when no Redis is available.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[string]*Request
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: make(map[string]*Request)}
}

func (s *MemoryStore) Create(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *req
	s.requests[req.RequestID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, requestID string) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[requestID]
	if !ok {
		return nil, ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *MemoryStore) MarkFulfilled(_ context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	req.Status = RequestStatusFulfilled
	req.FulfilledAt = time.Now()
	return nil
}
