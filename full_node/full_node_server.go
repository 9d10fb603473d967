package full_node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Luismorlan/shycoin/commands"
	"github.com/Luismorlan/shycoin/config"
	"github.com/Luismorlan/shycoin/model"
	"github.com/Luismorlan/shycoin/service"
	"github.com/Luismorlan/shycoin/utils"
	"github.com/Luismorlan/shycoin/visualize"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FullNodeServer exposes a full node, its peers and the reconciliation over gRPC.
type FullNodeServer struct {
	service.UnimplementedFullNodeServiceServer

	fullNode *FullNode
	// Peers in the network, independent of the chain.
	peers    *PeerRegistry
	resolver *Resolver
	config   config.AppConfig
	log      *slog.Logger
	// A command channel to pass command to other part of the system.
	// For now, the only use is the interrupt mining process on tail change.
	cmd chan commands.Command
}

// Create a new full node server. fetcher is how peers' chains are retrieved during
// reconciliation; cmd may be nil when nothing mines continuously.
func NewFullNodeServer(c config.AppConfig, fetcher ChainFetcher, cmd chan commands.Command, log *slog.Logger) *FullNodeServer {
	node := NewFullNode(log)
	peers := NewPeerRegistry()
	return &FullNodeServer{
		fullNode: node,
		peers:    peers,
		resolver: NewResolver(node, peers, fetcher, c.PeerTimeout(), log),
		config:   c,
		log:      log,
		cmd:      cmd,
	}
}

// ServerOptions sizes the grpc server for whole chains, in both directions.
func ServerOptions(c config.AppConfig) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.MaxRecvMsgSize(c.MAX_MESSAGE_BYTES),
		grpc.MaxSendMsgSize(c.MAX_MESSAGE_BYTES),
	}
}

func (sev *FullNodeServer) FullNode() *FullNode {
	return sev.fullNode
}

func (sev *FullNodeServer) Peers() *PeerRegistry {
	return sev.peers
}

// Mine one block on top of the tail, paying the configured reward to the miner.
func (sev *FullNodeServer) Mine(ctl chan commands.Command) (*model.Block, commands.Command, error) {
	reward := utils.CreateRewardTx(sev.fullNode.ID(), sev.config.MINER, sev.config.COINBASE_REWARD)
	return sev.fullNode.Mine(ctl, &reward)
}

// ChainSnapshot returns a copy of the chain and its length.
func (sev *FullNodeServer) ChainSnapshot() (model.ChainSnapshot, error) {
	return sev.fullNode.GetChain()
}

// SubmitTransaction queues a transaction whose fields the caller already checked.
func (sev *FullNodeServer) SubmitTransaction(sender string, receiver string, amount float64) (int64, error) {
	return sev.fullNode.AddTransaction(sender, receiver, amount)
}

func (sev *FullNodeServer) RegisterPeers(addresses []string) error {
	return sev.peers.RegisterPeers(addresses)
}

func (sev *FullNodeServer) IsChainValid() bool {
	return sev.fullNode.CheckValidity()
}

// Reconcile runs the longest chain rule against every peer. When the chain is swapped and the
// config asks for it, continuous mining is told to restart on the new tail.
func (sev *FullNodeServer) Reconcile(ctx context.Context) bool {
	replaced := sev.resolver.Reconcile(ctx)
	if replaced && sev.config.REMINE_ON_TAIL_CHANGE && sev.cmd != nil {
		select {
		case sev.cmd <- commands.Command{Op: commands.RESTART}:
		default:
			sev.log.Debug("no one to restart mining")
		}
	}
	return replaced
}

// Show renders the last d blocks of the chain.
func (sev *FullNodeServer) Show(d int) (string, error) {
	snapshot, err := sev.fullNode.GetChain()
	if err != nil {
		return "", err
	}
	return visualize.Render(snapshot.Chain, d, sev.fullNode.ID())
}

// Mine a block for a remote caller. The search stops if the caller goes away.
func (sev *FullNodeServer) MineBlock(ctx context.Context, req *service.MineBlockRequest) (*service.MineBlockResponse, error) {
	ctl := make(chan commands.Command, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ctl <- commands.Command{Op: commands.STOP}
		case <-done:
		}
	}()

	block, _, err := sev.Mine(ctl)
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		return nil, toStatus(err)
	}
	return &service.MineBlockResponse{
		Message: "We mined a new block",
		Block:   block,
	}, nil
}

func (sev *FullNodeServer) GetChain(ctx context.Context, req *service.GetChainRequest) (*service.GetChainResponse, error) {
	snapshot, err := sev.ChainSnapshot()
	if err != nil {
		return nil, toStatus(err)
	}
	return &service.GetChainResponse{
		Chain:  snapshot.Chain,
		Length: snapshot.Length,
	}, nil
}

// Set transaction should add transaction to pool. All three fields must be present.
func (sev *FullNodeServer) AddTransaction(ctx context.Context, req *service.AddTransactionRequest) (*service.AddTransactionResponse, error) {
	tx, err := utils.NewTransaction(req.Sender, req.Receiver, req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	index, err := sev.SubmitTransaction(tx.Sender, tx.Receiver, tx.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &service.AddTransactionResponse{
		Message: fmt.Sprintf("This transaction will be added to block %d", index),
		Index:   index,
	}, nil
}

func (sev *FullNodeServer) ConnectNodes(ctx context.Context, req *service.ConnectNodesRequest) (*service.ConnectNodesResponse, error) {
	if err := sev.RegisterPeers(req.Nodes); err != nil {
		return nil, toStatus(err)
	}
	return &service.ConnectNodesResponse{
		Message:    "Nodes added",
		TotalNodes: sev.peers.Peers(),
	}, nil
}

func (sev *FullNodeServer) CheckValidity(ctx context.Context, req *service.CheckValidityRequest) (*service.CheckValidityResponse, error) {
	valid := sev.IsChainValid()
	msg := "The chain is valid"
	if !valid {
		msg = "The chain is invalid"
	}
	return &service.CheckValidityResponse{
		Valid:   valid,
		Message: msg,
	}, nil
}

func (sev *FullNodeServer) ReplaceChain(ctx context.Context, req *service.ReplaceChainRequest) (*service.ReplaceChainResponse, error) {
	replaced := sev.Reconcile(ctx)
	snapshot, err := sev.fullNode.GetChain()
	if err != nil {
		return nil, toStatus(err)
	}
	msg := "The chain was the longest beforehand"
	if replaced {
		msg = "The chain was replaced"
	}
	return &service.ReplaceChainResponse{
		Replaced: replaced,
		Message:  msg,
		Chain:    snapshot.Chain,
	}, nil
}

// toStatus maps node errors to grpc status codes. Malformed input is the caller's fault.
func toStatus(err error) error {
	switch {
	case errors.Is(err, model.ErrMalformedTransaction), errors.Is(err, model.ErrMalformedPeer):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
