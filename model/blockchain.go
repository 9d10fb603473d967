package model

const (
	// Index of the first block in every chain.
	GENESIS_INDEX = 1
	// Nonce hard-coded into the genesis block.
	GENESIS_NONCE = 1
	// Previous hash of the genesis block; it has no predecessor.
	GENESIS_PREV_HASH = "0"
)

// Block is immutable once it is appended to a chain. Fields are declared in the order their
// json keys sort.
type Block struct {
	// Position in the chain, starting at 1 for genesis.
	Index int64 `json:"index"`
	// Nonce is the solution of the proof of work relative to the previous block's nonce.
	Nonce int64 `json:"nonce"`
	// Hash of the previous block in the hex format.
	PreviousHash string `json:"previous_hash"`
	// Creation instant, RFC 3339 with nanoseconds in UTC.
	Timestamp string `json:"timestamp"`
	// Transactions folded into this block, may be empty.
	Transactions []Transaction `json:"transactions"`
}

type Blockchain struct {
	// Blocks in chain order. Never empty once created through NewBlockChain.
	Blocks []Block
}

// Create a new blockchain holding only the genesis block, stamped with ts.
func NewBlockChain(ts string) Blockchain {
	genesis := Block{
		Index:        GENESIS_INDEX,
		Nonce:        GENESIS_NONCE,
		PreviousHash: GENESIS_PREV_HASH,
		Timestamp:    ts,
		Transactions: []Transaction{},
	}
	return Blockchain{
		Blocks: []Block{genesis},
	}
}

// Tail returns the last block of the chain.
func (bc *Blockchain) Tail() (Block, error) {
	if len(bc.Blocks) == 0 {
		return Block{}, ErrEmptyChain
	}
	return bc.Blocks[len(bc.Blocks)-1], nil
}

// Height is the number of blocks in the chain.
func (bc *Blockchain) Height() int64 {
	return int64(len(bc.Blocks))
}
