package model

// Transaction moves an amount from sender to receiver. Fields are declared in the order their
// json keys sort, which is also the order they are hashed in.
type Transaction struct {
	// How much value to transfer. No sign or magnitude rule is enforced by the node.
	Amount float64 `json:"amount"`
	// Identifier of the receiving party.
	Receiver string `json:"receiver"`
	// Identifier of the sending party.
	Sender string `json:"sender"`
}

type TransactionPool struct {
	// TransactionPool contains all pending transactions that haven't been folded into a block,
	// in arrival order.
	Txs []Transaction
}

// NewTransactionPool creates a new transaction pool with no transaction at all.
func NewTransactionPool() TransactionPool {
	return TransactionPool{
		Txs: []Transaction{},
	}
}

// Drain returns every pending transaction and leaves the pool empty.
func (p *TransactionPool) Drain() []Transaction {
	txs := p.Txs
	p.Txs = []Transaction{}
	return txs
}
