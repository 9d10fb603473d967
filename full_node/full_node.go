package full_node

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Luismorlan/shycoin/commands"
	"github.com/Luismorlan/shycoin/model"
	"github.com/Luismorlan/shycoin/utils"
	uuid "github.com/satori/go.uuid"
)

// A full node maintains the blockchain and the pool of pending transactions.
type FullNode struct {
	// The blockchain it needs to maintain.
	blockchain model.Blockchain
	// Transaction pool it need to maintain. Incoming transaction are added to this pool.
	txPool model.TransactionPool
	// A single mutex for the chain and the pool. Both change together or not at all.
	m sync.RWMutex
	// A unique identifier of this full node, sender of its mining rewards.
	uuid string
	log  *slog.Logger
	// Clock used for block timestamps.
	now func() time.Time
}

// Create a brand new full node, which contains a genesis block in the chain.
func NewFullNode(log *slog.Logger) *FullNode {
	f := &FullNode{
		txPool: model.NewTransactionPool(),
		uuid:   uuid.NewV4().String(),
		log:    log,
		now:    time.Now,
	}
	f.blockchain = model.NewBlockChain(f.timestamp())
	return f
}

func (f *FullNode) timestamp() string {
	return f.now().UTC().Format(time.RFC3339Nano)
}

// ID returns the node's unique identifier.
func (f *FullNode) ID() string {
	return f.uuid
}

// CreateBlock appends a block holding every pending transaction and empties the pool.
func (f *FullNode) CreateBlock(nonce int64, previousHash string) model.Block {
	f.m.Lock()
	defer f.m.Unlock()
	return f.createBlockLocked(nonce, previousHash)
}

func (f *FullNode) createBlockLocked(nonce int64, previousHash string) model.Block {
	block := model.Block{
		Index:        f.blockchain.Height() + 1,
		Nonce:        nonce,
		PreviousHash: previousHash,
		Timestamp:    f.timestamp(),
		Transactions: f.txPool.Drain(),
	}
	f.blockchain.Blocks = append(f.blockchain.Blocks, block)
	return block
}

// PreviousBlock returns the tail of the chain.
func (f *FullNode) PreviousBlock() (model.Block, error) {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.blockchain.Tail()
}

// AddTransaction queues a transaction and returns the index of the block it will be folded
// into once mining next succeeds.
func (f *FullNode) AddTransaction(sender string, receiver string, amount float64) (int64, error) {
	if !utils.IsEncodableAmount(amount) {
		return 0, fmt.Errorf("%w: amount %v is not a finite number", model.ErrMalformedTransaction, amount)
	}
	f.m.Lock()
	defer f.m.Unlock()

	tail, err := f.blockchain.Tail()
	if err != nil {
		return 0, err
	}
	f.txPool.Txs = append(f.txPool.Txs, model.Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	})
	return tail.Index + 1, nil
}

// PendingTransactions returns a copy of the pool.
func (f *FullNode) PendingTransactions() []model.Transaction {
	f.m.RLock()
	defer f.m.RUnlock()
	txs, err := utils.CopyTransactions(f.txPool.Txs)
	if err != nil {
		f.log.Error("failed to copy transaction pool", "err", err)
		return []model.Transaction{}
	}
	return txs
}

// GetChain returns a deep copy of the chain and its length, taken under one read lock.
func (f *FullNode) GetChain() (model.ChainSnapshot, error) {
	f.m.RLock()
	defer f.m.RUnlock()
	blocks, err := utils.CopyBlocks(f.blockchain.Blocks)
	if err != nil {
		return model.ChainSnapshot{}, err
	}
	return model.ChainSnapshot{
		Chain:  blocks,
		Length: int64(len(blocks)),
	}, nil
}

// GetHeight returns the number of blocks in the chain.
func (f *FullNode) GetHeight() int64 {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.blockchain.Height()
}

// CheckValidity validates the local chain.
func (f *FullNode) CheckValidity() bool {
	f.m.RLock()
	defer f.m.RUnlock()
	err := utils.ValidateChain(f.blockchain.Blocks)
	if err != nil {
		f.log.Warn("local chain is invalid", "err", err)
	}
	return err == nil
}

// ReplaceChain swaps in candidate if it is strictly longer than the current chain at the time
// the lock is taken. The pool is left alone. Returns whether the swap happened.
func (f *FullNode) ReplaceChain(candidate []model.Block) bool {
	f.m.Lock()
	defer f.m.Unlock()
	if int64(len(candidate)) <= f.blockchain.Height() {
		return false
	}
	f.blockchain.Blocks = candidate
	return true
}

// Mine solves the puzzle on top of the current tail and appends a block with every pending
// transaction, plus reward when it is not nil.
//
// Solving is a really long process and runs without holding the lock, so transactions and chain
// reads are served meanwhile. If the tail moved while solving, the solution is stale and the
// search restarts on the new tail. ctl interrupts the search at any time; an interrupted Mine
// changes nothing.
func (f *FullNode) Mine(ctl chan commands.Command, reward *model.Transaction) (*model.Block, commands.Command, error) {
	for {
		f.m.RLock()
		tail, err := f.blockchain.Tail()
		f.m.RUnlock()
		if err != nil {
			return nil, commands.NewDefaultCommand(), err
		}
		prevHash, err := utils.HashBlock(&tail)
		if err != nil {
			return nil, commands.NewDefaultCommand(), err
		}

		nonce, c, err := utils.SolveWithInterrupt(tail.Nonce, ctl)
		if err != nil {
			return nil, c, err
		}

		f.m.Lock()
		current, err := f.blockchain.Tail()
		if err != nil {
			f.m.Unlock()
			return nil, commands.NewDefaultCommand(), err
		}
		currentHash, err := utils.HashBlock(&current)
		if err != nil {
			f.m.Unlock()
			return nil, commands.NewDefaultCommand(), err
		}
		if currentHash != prevHash {
			f.m.Unlock()
			f.log.Debug("tail changed while mining, solving again", "index", current.Index)
			continue
		}
		if reward != nil {
			f.txPool.Txs = append(f.txPool.Txs, *reward)
		}
		block := f.createBlockLocked(nonce, prevHash)
		f.m.Unlock()

		f.log.Info("mined block", "index", block.Index, "nonce", block.Nonce, "txs", len(block.Transactions))
		return &block, commands.NewDefaultCommand(), nil
	}
}
