package club

import (
	"sort"
	"strings"
)

// MaxMembers is the hard cap on the size of a club.
const MaxMembers = 2

// MemberID identifies a member. It is opaque apart from equality and ordering.
type MemberID string

func (m MemberID) String() string {
	return string(m)
}

// Members is the persisted member set, kept sorted ascending with no duplicates.
// Mutating helpers return a new slice and never touch the receiver's backing array.
type Members []MemberID

// NewMembers builds a sorted, de-duplicated set from ids in any order.
func NewMembers(ids ...MemberID) Members {
	members := make(Members, 0, len(ids))
	for _, id := range ids {
		if _, found := members.Search(id); !found {
			members = members.Insert(id)
		}
	}
	return members
}

func (m Members) Len() int {
	return len(m)
}

func (m Members) IsFull() bool {
	return len(m) >= MaxMembers
}

// Search returns the index of id and whether it is present. When absent, the index is
// where id would be inserted to keep the set sorted.
func (m Members) Search(id MemberID) (int, bool) {
	i := sort.Search(len(m), func(i int) bool { return m[i] >= id })
	return i, i < len(m) && m[i] == id
}

func (m Members) Contains(id MemberID) bool {
	_, found := m.Search(id)
	return found
}

// Insert returns a copy of m with id placed at its sorted position.
func (m Members) Insert(id MemberID) Members {
	i, _ := m.Search(id)
	result := make(Members, 0, len(m)+1)
	result = append(result, m[:i]...)
	result = append(result, id)
	return append(result, m[i:]...)
}

// RemoveAt returns a copy of m without the element at index i.
func (m Members) RemoveAt(i int) Members {
	result := make(Members, 0, len(m)-1)
	result = append(result, m[:i]...)
	return append(result, m[i+1:]...)
}

// Sorted returns a sorted copy; sets written outside the registry may arrive unsorted.
func (m Members) Sorted() Members {
	result := make(Members, len(m))
	copy(result, m)
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func (m Members) Strings() []string {
	result := make([]string, 0, len(m))
	for _, id := range m {
		result = append(result, string(id))
	}
	return result
}

func (m Members) String() string {
	return "[" + strings.Join(m.Strings(), ", ") + "]"
}

// MembersFromStrings converts raw storage values into a sorted set.
func MembersFromStrings(values []string) Members {
	members := make(Members, 0, len(values))
	for _, v := range values {
		members = append(members, MemberID(v))
	}
	return members.Sorted()
}
