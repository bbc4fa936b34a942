package main

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/johnewart/go-clubmember/client"
	"github.com/johnewart/go-clubmember/club"
	"github.com/johnewart/go-clubmember/club/registry"
	"github.com/johnewart/go-clubmember/club/storage"
	"github.com/johnewart/go-clubmember/services"
)

const rootToken = "s3cret"

func startClub(t *testing.T) (*client.Client, *registry.Registry) {
	ctx := context.Background()
	reg := registry.NewRegistry(storage.NewMemoryMemberStore(), nil, registry.Config{})
	svc, err := services.NewClubService(ctx, services.ServiceConfig{Registry: reg, RootToken: rootToken})
	require.NoError(t, err)

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	services.RegisterClubServiceServer(server, svc)
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return client.NewClientWithConn(ctx, conn), reg
}

func TestRunWithRootTokenAndSignerSet(t *testing.T) {
	base, reg := startClub(t)
	ctx := context.Background()

	t.Setenv("CLUB_ROOT_TOKEN", rootToken)
	t.Setenv("CLUB_SIGNER", "bob")

	require.NoError(t, run(ctx, base, "add", []string{"bob"}))
	require.NoError(t, run(ctx, base, "add", []string{"alice"}))
	require.NoError(t, run(ctx, base, "leave", nil))

	members, err := reg.Members(ctx)
	require.NoError(t, err)
	assert.Equal(t, club.Members{"alice"}, members)

	require.NoError(t, run(ctx, base, "remove", []string{"alice"}))
	require.NoError(t, run(ctx, base, "list", nil))

	members, err = reg.Members(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRunLeaveIgnoresRootToken(t *testing.T) {
	base, reg := startClub(t)
	ctx := context.Background()

	t.Setenv("CLUB_ROOT_TOKEN", rootToken)
	t.Setenv("CLUB_SIGNER", "")

	require.NoError(t, run(ctx, base, "add", []string{"bob"}))
	assert.Error(t, run(ctx, base, "leave", nil))

	isMember, err := reg.IsMember(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestRunRejectsBadArguments(t *testing.T) {
	base, _ := startClub(t)
	ctx := context.Background()

	assert.Error(t, run(ctx, base, "add", nil))
	assert.Error(t, run(ctx, base, "remove", []string{"a", "b"}))
	assert.Error(t, run(ctx, base, "promote", []string{"bob"}))
}
