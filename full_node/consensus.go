package full_node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Luismorlan/shycoin/model"
	"github.com/Luismorlan/shycoin/utils"
)

// ChainFetcher retrieves the chain a peer currently holds.
type ChainFetcher interface {
	FetchChain(ctx context.Context, addr string) (model.ChainSnapshot, error)
}

// Resolver reconciles the local chain with the peers' chains using the longest valid chain
// rule. It borrows the node and the registry, it owns neither.
type Resolver struct {
	node    *FullNode
	peers   *PeerRegistry
	fetcher ChainFetcher
	// Budget for each peer, retries included.
	timeout time.Duration
	log     *slog.Logger
}

func NewResolver(node *FullNode, peers *PeerRegistry, fetcher ChainFetcher, timeout time.Duration, log *slog.Logger) *Resolver {
	return &Resolver{
		node:    node,
		peers:   peers,
		fetcher: fetcher,
		timeout: timeout,
		log:     log,
	}
}

// Reconcile polls every peer and adopts the longest valid chain if it is strictly longer than
// the local one. Unreachable peers and invalid chains are skipped. Equal lengths never replace
// the local chain. Returns whether the chain was replaced.
func (r *Resolver) Reconcile(ctx context.Context) bool {
	localLength := r.node.GetHeight()

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		bestLength = localLength
		bestChain  []model.Block
		bestPeer   string
	)
	for _, addr := range r.peers.Peers() {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			snapshot, err := r.fetch(ctx, addr)
			if err != nil {
				r.log.Warn("skipping unreachable peer", "peer", addr, "err", err)
				return
			}
			if snapshot.Length <= localLength {
				r.log.Debug("peer chain is not longer", "peer", addr, "length", snapshot.Length, "local", localLength)
				return
			}
			if err := checkCandidate(snapshot); err != nil {
				r.log.Warn("skipping invalid peer chain", "peer", addr, "err", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if snapshot.Length > bestLength {
				bestLength = snapshot.Length
				bestChain = snapshot.Chain
				bestPeer = addr
			}
		}(addr)
	}
	wg.Wait()

	if bestChain == nil {
		r.log.Info("local chain kept", "length", localLength)
		return false
	}
	if !r.node.ReplaceChain(bestChain) {
		// The local chain grew past the candidate while peers were polled.
		r.log.Info("local chain outgrew peer chain", "peer", bestPeer, "length", bestLength)
		return false
	}
	r.log.Info("chain replaced", "peer", bestPeer, "length", bestLength, "previous", localLength)
	return true
}

func (r *Resolver) fetch(ctx context.Context, addr string) (model.ChainSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	snapshot, err := r.fetcher.FetchChain(ctx, addr)
	if err != nil {
		var pe *model.PeerUnreachableError
		if errors.As(err, &pe) {
			return model.ChainSnapshot{}, err
		}
		return model.ChainSnapshot{}, &model.PeerUnreachableError{Addr: addr, Err: err}
	}
	return snapshot, nil
}

// checkCandidate validates a peer's chain and the length it reported for it.
func checkCandidate(snapshot model.ChainSnapshot) error {
	if snapshot.Length != int64(len(snapshot.Chain)) {
		return fmt.Errorf("%w: reported length %d, got %d blocks", model.ErrInvalidChain, snapshot.Length, len(snapshot.Chain))
	}
	return utils.ValidateChain(snapshot.Chain)
}
