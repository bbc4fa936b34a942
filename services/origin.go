package services

import (
	"context"
	"crypto/subtle"

	"github.com/johnewart/go-clubmember/club"
	"google.golang.org/grpc/metadata"
)

const (
	RootTokenHeader = "x-club-root-token"
	SignerHeader    = "x-club-signer"
)

// OriginFromContext maps request metadata to a caller origin. The signer header is
// trusted as-is; an authenticating proxy in front of the daemon is expected to set it.
// A valid root token wins over a signer header.
func OriginFromContext(ctx context.Context, rootToken string) club.Origin {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return club.None()
	}

	if token := first(md, RootTokenHeader); rootToken != "" && token != "" {
		if subtle.ConstantTimeCompare([]byte(token), []byte(rootToken)) == 1 {
			return club.Root()
		}
	}

	if signer := first(md, SignerHeader); signer != "" {
		return club.Signed(club.MemberID(signer))
	}

	return club.None()
}

func first(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
