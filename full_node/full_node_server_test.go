package full_node

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Luismorlan/shycoin/commands"
	"github.com/Luismorlan/shycoin/config"
	"github.com/Luismorlan/shycoin/logging"
	"github.com/Luismorlan/shycoin/model"
	"github.com/Luismorlan/shycoin/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startTestServer(t *testing.T, sev *FullNodeServer) service.FullNodeServiceClient {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	service.RegisterFullNodeServiceServer(s, sev)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.Dial("bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.Nil(t, err)
	t.Cleanup(func() { conn.Close() })
	return service.NewFullNodeServiceClient(conn)
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestServerRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.MINER = "satoshi"
	cfg.COINBASE_REWARD = 2
	sev := NewFullNodeServer(cfg, &fakeFetcher{}, nil, logging.Discard())
	c := startTestServer(t, sev)
	ctx := testContext(t)

	chain, err := c.GetChain(ctx, &service.GetChainRequest{})
	assert.Nil(t, err)
	assert.Equal(t, int64(1), chain.Length)
	assert.NotNil(t, chain.Chain[0].Transactions)

	alice, bob, amount := "alice", "bob", 4.0
	added, err := c.AddTransaction(ctx, &service.AddTransactionRequest{Sender: &alice, Receiver: &bob, Amount: &amount})
	assert.Nil(t, err)
	assert.Equal(t, int64(2), added.Index)

	mined, err := c.MineBlock(ctx, &service.MineBlockRequest{})
	assert.Nil(t, err)
	assert.Equal(t, "We mined a new block", mined.Message)
	assert.Equal(t, int64(2), mined.Block.Index)
	assert.Equal(t, []model.Transaction{
		{Sender: "alice", Receiver: "bob", Amount: 4},
		{Sender: sev.FullNode().ID(), Receiver: "satoshi", Amount: 2},
	}, mined.Block.Transactions)

	valid, err := c.CheckValidity(ctx, &service.CheckValidityRequest{})
	assert.Nil(t, err)
	assert.True(t, valid.Valid)
	assert.Equal(t, "The chain is valid", valid.Message)

	chain, err = c.GetChain(ctx, &service.GetChainRequest{})
	assert.Nil(t, err)
	assert.Equal(t, int64(2), chain.Length)
	assert.Equal(t, *mined.Block, chain.Chain[1])
}

func TestServerAddTransactionMissingField(t *testing.T) {
	sev := NewFullNodeServer(config.Default(), &fakeFetcher{}, nil, logging.Discard())
	c := startTestServer(t, sev)
	ctx := testContext(t)

	alice, bob, amount := "alice", "bob", 1.0
	_, err := c.AddTransaction(ctx, &service.AddTransactionRequest{Sender: &alice, Receiver: &bob})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = c.AddTransaction(ctx, &service.AddTransactionRequest{Receiver: &bob, Amount: &amount})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Empty(t, sev.FullNode().PendingTransactions())
}

func TestServerAddTransactionEmptyParties(t *testing.T) {
	sev := NewFullNodeServer(config.Default(), &fakeFetcher{}, nil, logging.Discard())
	c := startTestServer(t, sev)
	ctx := testContext(t)

	empty, amount := "", 1.0
	resp, err := c.AddTransaction(ctx, &service.AddTransactionRequest{Sender: &empty, Receiver: &empty, Amount: &amount})
	assert.Nil(t, err)
	assert.Equal(t, int64(2), resp.Index)
	assert.Equal(t, []model.Transaction{{Amount: 1}}, sev.FullNode().PendingTransactions())
}

func TestServerConnectNodes(t *testing.T) {
	sev := NewFullNodeServer(config.Default(), &fakeFetcher{}, nil, logging.Discard())
	c := startTestServer(t, sev)
	ctx := testContext(t)

	_, err := c.ConnectNodes(ctx, &service.ConnectNodesRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err := c.ConnectNodes(ctx, &service.ConnectNodesRequest{Nodes: []string{"http://127.0.0.1:5001", "http://127.0.0.1:5001"}})
	assert.Nil(t, err)
	assert.Equal(t, "Nodes added", resp.Message)
	assert.Equal(t, []string{"127.0.0.1:5001"}, resp.TotalNodes)
}

func TestServerReplaceChain(t *testing.T) {
	longer := mineChain(t, 3)
	cmd := make(chan commands.Command, 1)
	fetcher := &fakeFetcher{chains: map[string]model.ChainSnapshot{"a:1": snapshotOf(longer)}}
	sev := NewFullNodeServer(config.Default(), fetcher, cmd, logging.Discard())
	c := startTestServer(t, sev)
	ctx := testContext(t)

	resp, err := c.ReplaceChain(ctx, &service.ReplaceChainRequest{})
	assert.Nil(t, err)
	assert.False(t, resp.Replaced)
	assert.Equal(t, "The chain was the longest beforehand", resp.Message)

	_, err = c.ConnectNodes(ctx, &service.ConnectNodesRequest{Nodes: []string{"a:1"}})
	assert.Nil(t, err)
	resp, err = c.ReplaceChain(ctx, &service.ReplaceChainRequest{})
	assert.Nil(t, err)
	assert.True(t, resp.Replaced)
	assert.Equal(t, "The chain was replaced", resp.Message)
	assert.Equal(t, longer, resp.Chain)

	// Continuous mining is asked to restart on the new tail.
	select {
	case c := <-cmd:
		assert.Equal(t, commands.RESTART, c.Op)
	default:
		t.Fatal("no restart was requested")
	}
}

func TestServerMineBlockCancelled(t *testing.T) {
	sev := NewFullNodeServer(config.Default(), &fakeFetcher{}, nil, logging.Discard())
	c := startTestServer(t, sev)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.MineBlock(ctx, &service.MineBlockRequest{})
	assert.Equal(t, codes.Canceled, status.Code(err))
	assert.Equal(t, int64(1), sev.FullNode().GetHeight())
}

func TestServerShow(t *testing.T) {
	sev := NewFullNodeServer(config.Default(), &fakeFetcher{}, nil, logging.Discard())
	_, _, err := sev.Mine(make(chan commands.Command))
	require.Nil(t, err)

	path, err := sev.Show(1)
	assert.Nil(t, err)
	assert.FileExists(t, path)
}
