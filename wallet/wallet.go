package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/Luismorlan/shycoin/client"
	"github.com/Luismorlan/shycoin/service"
	"google.golang.org/grpc"
)

var ErrNotConnected = errors.New("not connected to any full node, use connect first")

// User submits transactions and drives a full node over the network.
type Wallet struct {
	fullNodeClient *client.FullNodeClient
	// Per request budget. Mining waits for the node to find a block, so it has none.
	timeout  time.Duration
	dialOpts []grpc.DialOption
	log      *slog.Logger
}

func NewWallet(timeout time.Duration, log *slog.Logger, opts ...grpc.DialOption) *Wallet {
	return &Wallet{
		timeout:  timeout,
		dialOpts: opts,
		log:      log,
	}
}

// Connect to the full node at ipAddr:port, dropping any previous connection.
func (w *Wallet) SetFullNodeConnection(ipAddr string, port string) error {
	serverAddr := net.JoinHostPort(ipAddr, port)
	c, err := client.Dial(serverAddr, w.dialOpts...)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", serverAddr, err)
	}
	if w.fullNodeClient != nil {
		w.fullNodeClient.Close()
	}
	w.fullNodeClient = c
	w.log.Info("connected full node endpoint", "addr", serverAddr)
	return nil
}

func (w *Wallet) Close() error {
	if w.fullNodeClient == nil {
		return nil
	}
	return w.fullNodeClient.Close()
}

func (w *Wallet) node() (*client.FullNodeClient, error) {
	if w.fullNodeClient == nil {
		return nil, ErrNotConnected
	}
	return w.fullNodeClient, nil
}

// Transfer asks the node to queue a transaction and returns the index of the block it will
// land in.
func (w *Wallet) Transfer(sender string, receiver string, amount float64) (*service.AddTransactionResponse, error) {
	c, err := w.node()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return c.AddTransaction(ctx, &service.AddTransactionRequest{
		Sender:   &sender,
		Receiver: &receiver,
		Amount:   &amount,
	})
}

// Mine blocks until the node mined one block, or ctx is done.
func (w *Wallet) Mine(ctx context.Context) (*service.MineBlockResponse, error) {
	c, err := w.node()
	if err != nil {
		return nil, err
	}
	return c.MineBlock(ctx, &service.MineBlockRequest{})
}

func (w *Wallet) GetChain() (*service.GetChainResponse, error) {
	c, err := w.node()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return c.GetChain(ctx, &service.GetChainRequest{})
}

func (w *Wallet) AddNodes(nodes []string) (*service.ConnectNodesResponse, error) {
	c, err := w.node()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return c.ConnectNodes(ctx, &service.ConnectNodesRequest{Nodes: nodes})
}

// Sync asks the node to adopt the longest valid chain among its peers.
func (w *Wallet) Sync() (*service.ReplaceChainResponse, error) {
	c, err := w.node()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return c.ReplaceChain(ctx, &service.ReplaceChainRequest{})
}

func (w *Wallet) Validate() (*service.CheckValidityResponse, error) {
	c, err := w.node()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return c.CheckValidity(ctx, &service.CheckValidityRequest{})
}

// FormatChain renders a chain one block per line.
func FormatChain(resp *service.GetChainResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "length: %d\n", resp.Length)
	for _, b := range resp.Chain {
		fmt.Fprintf(&sb, "#%d nonce=%d prev=%s txs=%d at %s\n", b.Index, b.Nonce, b.PreviousHash, len(b.Transactions), b.Timestamp)
	}
	return sb.String()
}
