package club

import "errors"

// Registry rejections. Operations wrap these with context, so match them with errors.Is.
// None of them are retryable: the caller has to change its input or provenance.
var (
	ErrUnauthorized            = errors.New("caller lacks the required origin")
	ErrGroupFull               = errors.New("club already has the maximum number of members")
	ErrAlreadyMember           = errors.New("already a member")
	ErrNotMember               = errors.New("not a member")
	ErrCannotRemoveOtherMember = errors.New("cannot remove another member")
)

// Rejection reports which registry error kind err carries, or "" for anything else
// (storage faults, transport errors).
func Rejection(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrGroupFull):
		return "group_full"
	case errors.Is(err, ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, ErrNotMember):
		return "not_member"
	case errors.Is(err, ErrCannotRemoveOtherMember):
		return "cannot_remove_other_member"
	default:
		return ""
	}
}
