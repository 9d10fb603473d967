package client

import (
	"context"
	"sync"

	"github.com/Luismorlan/shycoin/config"
	"github.com/Luismorlan/shycoin/model"
	"github.com/Luismorlan/shycoin/service"
	"github.com/cenkalti/backoff"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// FullNodeClient is a connection to a single full node.
type FullNodeClient struct {
	service.FullNodeServiceClient
	conn *grpc.ClientConn
}

// MaxMessageSize lifts grpc's 4 MiB default for messages to and from the node. A whole chain
// travels in one GetChain response.
func MaxMessageSize(n int) grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(n), grpc.MaxCallSendMsgSize(n))
}

// Dial connects to the full node at addr (host:port). The connection is lazy, so a node that is
// down is only noticed by the first call. Messages up to config.DEFAULT_MAX_MESSAGE_BYTES are
// accepted unless opts set another MaxMessageSize.
func Dial(addr string, opts ...grpc.DialOption) (*FullNodeClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		MaxMessageSize(config.DEFAULT_MAX_MESSAGE_BYTES),
	}, opts...)
	conn, err := grpc.Dial(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &FullNodeClient{
		FullNodeServiceClient: service.NewFullNodeServiceClient(conn),
		conn:                  conn,
	}, nil
}

func (c *FullNodeClient) Close() error {
	return c.conn.Close()
}

// PeerFetcher retrieves peers' chains for reconciliation. Connections are kept per peer and
// every fetch is retried with exponential backoff until the context expires.
type PeerFetcher struct {
	retries  uint64
	dialOpts []grpc.DialOption

	m       sync.Mutex
	clients map[string]*FullNodeClient
}

func NewPeerFetcher(retries int, opts ...grpc.DialOption) *PeerFetcher {
	if retries < 0 {
		retries = 0
	}
	return &PeerFetcher{
		retries:  uint64(retries),
		dialOpts: opts,
		clients:  make(map[string]*FullNodeClient),
	}
}

func (p *PeerFetcher) client(addr string) (*FullNodeClient, error) {
	p.m.Lock()
	defer p.m.Unlock()
	if c, ok := p.clients[addr]; ok {
		return c, nil
	}
	c, err := Dial(addr, p.dialOpts...)
	if err != nil {
		return nil, err
	}
	p.clients[addr] = c
	return c, nil
}

// FetchChain asks the peer at addr for its chain. Any failure is reported as a
// model.PeerUnreachableError.
func (p *PeerFetcher) FetchChain(ctx context.Context, addr string) (model.ChainSnapshot, error) {
	c, err := p.client(addr)
	if err != nil {
		return model.ChainSnapshot{}, &model.PeerUnreachableError{Addr: addr, Err: err}
	}

	var resp *service.GetChainResponse
	op := func() error {
		r, err := c.GetChain(ctx, &service.GetChainRequest{})
		if err != nil {
			return err
		}
		resp = r
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.retries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return model.ChainSnapshot{}, &model.PeerUnreachableError{Addr: addr, Err: err}
	}
	return model.ChainSnapshot{
		Chain:  resp.Chain,
		Length: resp.Length,
	}, nil
}

// Forget drops the connection to addr, if any.
func (p *PeerFetcher) Forget(addr string) {
	p.m.Lock()
	defer p.m.Unlock()
	if c, ok := p.clients[addr]; ok {
		c.Close()
		delete(p.clients, addr)
	}
}

// Close drops every connection.
func (p *PeerFetcher) Close() {
	p.m.Lock()
	defer p.m.Unlock()
	for addr, c := range p.clients {
		c.Close()
		delete(p.clients, addr)
	}
}
