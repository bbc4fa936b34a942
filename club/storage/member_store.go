package storage

import (
	"context"

	"github.com/johnewart/go-clubmember/club"
)

// MemberStore holds exactly one value: the member set of a single club.
// GetMembers returns an empty set when nothing has been stored yet.
type MemberStore interface {
	GetMembers(ctx context.Context) (club.Members, error)
	PutMembers(ctx context.Context, members club.Members) error
}

// Transactor is implemented by stores that can run a read-modify-write as one unit.
// Writes made through the store passed to fn are discarded if fn returns an error.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(MemberStore) error) error
}
