package util

import (
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ConnectionPool shares one client connection per daemon address.
type ConnectionPool struct {
	sync.Map
	Options []grpc.DialOption
}

func (p *ConnectionPool) GetConnection(address string) (*grpc.ClientConn, error) {
	if conn, ok := p.getConnection(address); ok {
		return conn, nil
	}

	opts := p.Options
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.Dial(address, opts...)
	if err != nil {
		return nil, err
	}

	if existing, loaded := p.LoadOrStore(address, conn); loaded {
		conn.Close()
		return existing.(*grpc.ClientConn), nil
	}
	return conn, nil
}

func (p *ConnectionPool) getConnection(address string) (*grpc.ClientConn, bool) {
	if item, ok := p.Load(address); !ok {
		return nil, false
	} else {
		return item.(*grpc.ClientConn), true
	}
}

func (p *ConnectionPool) Close() {
	p.Range(func(key, value interface{}) bool {
		value.(*grpc.ClientConn).Close()
		p.Delete(key)
		return true
	})
}
