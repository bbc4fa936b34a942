package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembersInsertKeepsOrder(t *testing.T) {
	members := Members{}
	for _, id := range []MemberID{"mallory", "alice", "trent"} {
		members = members.Insert(id)
	}
	assert.Equal(t, Members{"alice", "mallory", "trent"}, members)
}

func TestMembersInsertDoesNotAlias(t *testing.T) {
	base := make(Members, 1, 4)
	base[0] = "bob"
	withAlice := base.Insert("alice")
	withCarol := base.Insert("carol")

	assert.Equal(t, Members{"bob"}, base)
	assert.Equal(t, Members{"alice", "bob"}, withAlice)
	assert.Equal(t, Members{"bob", "carol"}, withCarol)
}

func TestMembersSearch(t *testing.T) {
	members := NewMembers("carol", "alice")

	i, found := members.Search("carol")
	require.True(t, found)
	assert.Equal(t, 1, i)

	i, found = members.Search("bob")
	assert.False(t, found)
	assert.Equal(t, 1, i, "insertion point")

	assert.False(t, Members{}.Contains("alice"))
}

func TestMembersRemoveAt(t *testing.T) {
	members := NewMembers("alice", "bob")
	assert.Equal(t, Members{"bob"}, members.RemoveAt(0))
	assert.Equal(t, Members{"alice"}, members.RemoveAt(1))
	assert.Equal(t, Members{"alice", "bob"}, members)
}

func TestNewMembersDeduplicates(t *testing.T) {
	assert.Equal(t, Members{"alice", "bob"}, NewMembers("bob", "alice", "bob"))
	assert.True(t, NewMembers("bob", "alice").IsFull())
	assert.False(t, NewMembers("bob").IsFull())
}

func TestMembersFromStrings(t *testing.T) {
	members := MembersFromStrings([]string{"zed", "amy"})
	assert.Equal(t, Members{"amy", "zed"}, members)
	assert.Equal(t, []string{"amy", "zed"}, members.Strings())
	assert.Equal(t, "[amy, zed]", members.String())
}
