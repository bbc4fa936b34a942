// Package registry implements the club membership registry: a set of at most
// club.MaxMembers members that root may grow or shrink and that a member may leave on
// its own.
//
// The member set is kept sorted. Additions insert at the sorted position and removals
// locate the target by binary search, so the two always agree on where a member is.
package registry

import (
	"context"
	"fmt"

	"github.com/johnewart/go-clubmember/club"
	"github.com/johnewart/go-clubmember/club/events"
	"github.com/johnewart/go-clubmember/club/storage"
	"github.com/johnewart/go-clubmember/metrics"
	"zombiezen.com/go/log"
)

const (
	OpAddMember        = "add_member"
	OpRemoveMember     = "remove_member"
	OpRemoveMemberSelf = "remove_member_self"
)

type Config struct {
	Metrics *metrics.MetricsRegistry
}

// Registry carries no locks. Callers must not run two operations against the same
// store at once unless the store implements storage.Transactor.
type Registry struct {
	store   storage.MemberStore
	emitter events.Emitter
	metrics *metrics.MetricsRegistry
}

func NewRegistry(store storage.MemberStore, emitter events.Emitter, config Config) *Registry {
	m := config.Metrics
	if m == nil {
		m = metrics.NewNoopMetricRegistry()
	}
	if emitter == nil {
		emitter = events.MultiEmitter{}
	}

	return &Registry{
		store:   store,
		emitter: emitter,
		metrics: m,
	}
}

func (r *Registry) Members(ctx context.Context) (club.Members, error) {
	if members, err := r.store.GetMembers(ctx); err != nil {
		return nil, fmt.Errorf("unable to load members: %w", err)
	} else {
		return members.Sorted(), nil
	}
}

func (r *Registry) IsMember(ctx context.Context, who club.MemberID) (bool, error) {
	if members, err := r.Members(ctx); err != nil {
		return false, err
	} else {
		return members.Contains(who), nil
	}
}

// AddMember lets root add candidate to the club.
func (r *Registry) AddMember(ctx context.Context, caller club.Caller, candidate club.MemberID) error {
	authorize := func() error {
		if err := club.EnsureRoot(caller); err != nil {
			return fmt.Errorf("unable to add %s: %w", candidate, err)
		}
		return nil
	}

	return r.apply(ctx, OpAddMember, authorize, func(members club.Members) (club.Members, club.Event, error) {
		if members.IsFull() {
			return nil, club.Event{}, fmt.Errorf("unable to add %s: %w", candidate, club.ErrGroupFull)
		}

		if members.Contains(candidate) {
			return nil, club.Event{}, fmt.Errorf("unable to add %s: %w", candidate, club.ErrAlreadyMember)
		}

		return members.Insert(candidate), club.NewEvent(club.MemberAdded, candidate), nil
	})
}

// RemoveMember lets root remove any member.
func (r *Registry) RemoveMember(ctx context.Context, caller club.Caller, target club.MemberID) error {
	authorize := func() error {
		if err := club.EnsureRoot(caller); err != nil {
			return fmt.Errorf("unable to remove %s: %w", target, err)
		}
		return nil
	}

	return r.apply(ctx, OpRemoveMember, authorize, removal(target))
}

// RemoveMemberSelf lets a signed caller leave the club. The identity check happens
// before the lookup, so asking to remove someone else never reveals whether they are a
// member.
func (r *Registry) RemoveMemberSelf(ctx context.Context, caller club.Caller, target club.MemberID) error {
	authorize := func() error {
		signer, err := club.EnsureSigned(caller)
		if err != nil {
			return fmt.Errorf("unable to remove %s: %w", target, err)
		}
		if signer != target {
			return fmt.Errorf("%s unable to remove %s: %w", signer, target, club.ErrCannotRemoveOtherMember)
		}
		return nil
	}

	return r.apply(ctx, OpRemoveMemberSelf, authorize, removal(target))
}

type transition func(members club.Members) (club.Members, club.Event, error)

func removal(target club.MemberID) transition {
	return func(members club.Members) (club.Members, club.Event, error) {
		location, found := members.Search(target)
		if !found {
			return nil, club.Event{}, fmt.Errorf("unable to remove %s: %w", target, club.ErrNotMember)
		}

		return members.RemoveAt(location), club.NewEvent(club.MemberRemoved, target), nil
	}
}

// apply checks authorization before touching state, then runs read, validate and write
// as one unit. The event goes out only after the write has committed.
func (r *Registry) apply(ctx context.Context, op string, authorize func() error, next transition) error {
	var (
		event club.Event
		after club.Members
	)

	err := r.metrics.TimeOperation(op, func() error {
		if err := authorize(); err != nil {
			return err
		}

		return r.withinTransaction(ctx, func(store storage.MemberStore) error {
			before, err := store.GetMembers(ctx)
			if err != nil {
				return fmt.Errorf("unable to load members: %w", err)
			}

			updated, e, err := next(before.Sorted())
			if err != nil {
				return err
			}

			if err := store.PutMembers(ctx, updated); err != nil {
				return fmt.Errorf("unable to store members: %w", err)
			}

			event, after = e, updated
			return nil
		})
	})

	if err != nil {
		if reason := club.Rejection(err); reason != "" {
			log.Infof(ctx, "%s rejected: %v", op, err)
			r.metrics.CountRejection(op, reason)
		} else {
			log.Errorf(ctx, "%s failed: %v", op, err)
			r.metrics.CountRejection(op, "storage")
		}
		return err
	}

	log.Infof(ctx, "%s: %s, club is now %v (%d/%d)", op, event.Member, after, after.Len(), club.MaxMembers)
	r.metrics.CountMembershipChange(op)
	r.metrics.UpdateMemberCount(after.Len())
	r.emitter.Emit(ctx, event)
	return nil
}

func (r *Registry) withinTransaction(ctx context.Context, fn func(storage.MemberStore) error) error {
	if tx, ok := r.store.(storage.Transactor); ok {
		return tx.WithinTransaction(ctx, fn)
	}
	return fn(r.store)
}
