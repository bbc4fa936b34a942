package club

import "fmt"

// Caller is the provenance the host attaches to every registry call. The registry trusts
// both answers without verifying them.
type Caller interface {
	IsPrivileged() bool
	SignedIdentity() (MemberID, bool)
}

type OriginKind int

const (
	NoOrigin OriginKind = iota
	RootOrigin
	SignedOrigin
)

func (k OriginKind) String() string {
	switch k {
	case RootOrigin:
		return "root"
	case SignedOrigin:
		return "signed"
	default:
		return "none"
	}
}

// Origin is the value implementation of Caller.
type Origin struct {
	Kind   OriginKind
	Signer MemberID
}

func Root() Origin {
	return Origin{Kind: RootOrigin}
}

func Signed(signer MemberID) Origin {
	return Origin{Kind: SignedOrigin, Signer: signer}
}

func None() Origin {
	return Origin{Kind: NoOrigin}
}

func (o Origin) IsPrivileged() bool {
	return o.Kind == RootOrigin
}

// SignedIdentity reports the signer. A root origin has no signer.
func (o Origin) SignedIdentity() (MemberID, bool) {
	if o.Kind != SignedOrigin {
		return "", false
	}
	return o.Signer, true
}

func (o Origin) String() string {
	if o.Kind == SignedOrigin {
		return fmt.Sprintf("signed(%s)", o.Signer)
	}
	return o.Kind.String()
}

// EnsureRoot fails with ErrUnauthorized unless caller is privileged.
func EnsureRoot(caller Caller) error {
	if caller == nil || !caller.IsPrivileged() {
		return ErrUnauthorized
	}
	return nil
}

// EnsureSigned returns the signer or ErrUnauthorized.
func EnsureSigned(caller Caller) (MemberID, error) {
	if caller == nil {
		return "", ErrUnauthorized
	}
	if who, ok := caller.SignedIdentity(); ok {
		return who, nil
	}
	return "", ErrUnauthorized
}
