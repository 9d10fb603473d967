package wallet

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/Luismorlan/shycoin/config"
	"github.com/Luismorlan/shycoin/full_node"
	"github.com/Luismorlan/shycoin/logging"
	"github.com/Luismorlan/shycoin/model"
	"github.com/Luismorlan/shycoin/service"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func GetTestWallet(t *testing.T) *Wallet {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	service.RegisterFullNodeServiceServer(s, full_node.NewFullNodeServer(config.Default(), nil, nil, logging.Discard()))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	w := NewWallet(5*time.Second, logging.Discard(), grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	t.Cleanup(func() { w.Close() })
	return w
}

func TestNotConnected(t *testing.T) {
	w := NewWallet(time.Second, logging.Discard())
	_, err := w.GetChain()
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = w.Transfer("a", "b", 1)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Nil(t, w.Close())
}

func TestTransferAndMine(t *testing.T) {
	w := GetTestWallet(t)
	assert.Nil(t, w.SetFullNodeConnection("localhost", "10000"))

	resp, err := w.Transfer("alice", "bob", 3)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), resp.Index)

	mined, err := w.Mine(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, int64(2), mined.Block.Index)
	assert.Equal(t, model.Transaction{Sender: "alice", Receiver: "bob", Amount: 3}, mined.Block.Transactions[0])

	chain, err := w.GetChain()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), chain.Length)
	assert.True(t, strings.HasPrefix(FormatChain(chain), "length: 2\n#1 nonce=1 prev=0 txs=0"))

	valid, err := w.Validate()
	assert.Nil(t, err)
	assert.True(t, valid.Valid)
}

func TestAddNodesMalformed(t *testing.T) {
	w := GetTestWallet(t)
	assert.Nil(t, w.SetFullNodeConnection("localhost", "10000"))

	resp, err := w.AddNodes([]string{"http://127.0.0.1:5001", "127.0.0.1:5002"})
	assert.Nil(t, err)
	assert.Equal(t, []string{"127.0.0.1:5001", "127.0.0.1:5002"}, resp.TotalNodes)

	_, err = w.AddNodes([]string{"http://"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSyncWithoutPeers(t *testing.T) {
	w := GetTestWallet(t)
	assert.Nil(t, w.SetFullNodeConnection("localhost", "10000"))

	resp, err := w.Sync()
	assert.Nil(t, err)
	assert.False(t, resp.Replaced)
	assert.Equal(t, "The chain was the longest beforehand", resp.Message)
	assert.Len(t, resp.Chain, 1)
}
