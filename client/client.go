package client

import (
	"context"
	"fmt"

	"github.com/johnewart/go-clubmember/services"
	"github.com/johnewart/go-clubmember/util"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"zombiezen.com/go/log"
)

var pool = &util.ConnectionPool{}

type Client struct {
	clusterHost string
	clusterPort int
	ctx         context.Context
	conn        *grpc.ClientConn
	rootToken   string
	signer      string
}

func NewClient(ctx context.Context, clusterHost string, clusterPort int) *Client {
	return &Client{
		clusterHost: clusterHost,
		clusterPort: clusterPort,
		ctx:         ctx,
	}
}

// NewClientWithConn uses conn instead of the shared connection pool.
func NewClientWithConn(ctx context.Context, conn *grpc.ClientConn) *Client {
	return &Client{
		ctx:  ctx,
		conn: conn,
	}
}

// AsRoot returns a copy of the client that presents the root token.
func (c *Client) AsRoot(token string) *Client {
	dup := *c
	dup.rootToken = token
	return &dup
}

// AsSigner returns a copy of the client that identifies as signer.
func (c *Client) AsSigner(signer string) *Client {
	dup := *c
	dup.signer = signer
	return &dup
}

func (c *Client) AddMember(who string) error {
	return c.invoke(services.MethodAddMember, wrapperspb.String(who), &emptypb.Empty{})
}

func (c *Client) RemoveMember(who string) error {
	return c.invoke(services.MethodRemoveMember, wrapperspb.String(who), &emptypb.Empty{})
}

// Leave removes the signer from the club.
func (c *Client) Leave() error {
	if c.signer == "" {
		return fmt.Errorf("leaving the club needs a signer")
	}
	return c.invoke(services.MethodRemoveMemberSelf, wrapperspb.String(c.signer), &emptypb.Empty{})
}

func (c *Client) RemoveMemberSelf(who string) error {
	return c.invoke(services.MethodRemoveMemberSelf, wrapperspb.String(who), &emptypb.Empty{})
}

func (c *Client) Members() ([]string, error) {
	list := &structpb.ListValue{}
	if err := c.invoke(services.MethodMembers, &emptypb.Empty{}, list); err != nil {
		return nil, err
	}

	members := make([]string, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		members = append(members, v.GetStringValue())
	}
	return members, nil
}

func (c *Client) invoke(method string, in interface{}, out interface{}) error {
	conn, err := c.connection()
	if err != nil {
		return err
	}

	if err := conn.Invoke(c.outgoingContext(), services.FullMethod(method), in, out); err != nil {
		log.Debugf(c.ctx, "%s failed: %v", method, err)
		return err
	}
	return nil
}

func (c *Client) connection() (*grpc.ClientConn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	connAddr := fmt.Sprintf("%s:%d", c.clusterHost, c.clusterPort)
	if conn, err := pool.GetConnection(connAddr); err != nil {
		log.Warnf(c.ctx, "Unable to dial %s: %v", connAddr, err)
		return nil, fmt.Errorf("unable to dial %s: %v", connAddr, err)
	} else {
		return conn, nil
	}
}

func (c *Client) outgoingContext() context.Context {
	pairs := make([]string, 0, 4)
	if c.rootToken != "" {
		pairs = append(pairs, services.RootTokenHeader, c.rootToken)
	}
	if c.signer != "" {
		pairs = append(pairs, services.SignerHeader, c.signer)
	}
	if len(pairs) == 0 {
		return c.ctx
	}
	return metadata.AppendToOutgoingContext(c.ctx, pairs...)
}

// Close releases pooled connections.
func Close() {
	pool.Close()
}
