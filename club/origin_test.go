package club

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureRoot(t *testing.T) {
	assert.NoError(t, EnsureRoot(Root()))
	assert.ErrorIs(t, EnsureRoot(Signed("alice")), ErrUnauthorized)
	assert.ErrorIs(t, EnsureRoot(None()), ErrUnauthorized)
	assert.ErrorIs(t, EnsureRoot(nil), ErrUnauthorized)
}

func TestEnsureSigned(t *testing.T) {
	who, err := EnsureSigned(Signed("alice"))
	require.NoError(t, err)
	assert.Equal(t, MemberID("alice"), who)

	_, err = EnsureSigned(Root())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = EnsureSigned(None())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOriginString(t *testing.T) {
	assert.Equal(t, "root", Root().String())
	assert.Equal(t, "signed(alice)", Signed("alice").String())
	assert.Equal(t, "none", None().String())
}

func TestRejection(t *testing.T) {
	cases := map[error]string{
		ErrUnauthorized:            "unauthorized",
		ErrGroupFull:               "group_full",
		ErrAlreadyMember:           "already_member",
		ErrNotMember:               "not_member",
		ErrCannotRemoveOtherMember: "cannot_remove_other_member",
		errors.New("boom"):         "",
	}
	for err, want := range cases {
		assert.Equal(t, want, Rejection(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
}
