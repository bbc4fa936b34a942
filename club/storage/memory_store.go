package storage

import (
	"context"
	"sync"

	"github.com/johnewart/go-clubmember/club"
)

type MemoryStore struct {
	mu      sync.Mutex
	members club.Members
}

func NewMemoryMemberStore(initial ...club.MemberID) *MemoryStore {
	return &MemoryStore{members: club.NewMembers(initial...)}
}

func (m *MemoryStore) GetMembers(_ context.Context) (club.Members, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyMembers(m.members), nil
}

func (m *MemoryStore) PutMembers(_ context.Context, members club.Members) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = copyMembers(members)
	return nil
}

// WithinTransaction holds the store lock for the duration of fn and only commits the
// staged value when fn succeeds.
func (m *MemoryStore) WithinTransaction(ctx context.Context, fn func(MemberStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := &stagedStore{members: copyMembers(m.members)}
	if err := fn(staged); err != nil {
		return err
	}
	if staged.dirty {
		m.members = staged.members
	}
	return nil
}

type stagedStore struct {
	members club.Members
	dirty   bool
}

func (s *stagedStore) GetMembers(_ context.Context) (club.Members, error) {
	return copyMembers(s.members), nil
}

func (s *stagedStore) PutMembers(_ context.Context, members club.Members) error {
	s.members = copyMembers(members)
	s.dirty = true
	return nil
}

func copyMembers(members club.Members) club.Members {
	result := make(club.Members, len(members))
	copy(result, members)
	return result
}
