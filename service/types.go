package service

import "github.com/Luismorlan/shycoin/model"

type MineBlockRequest struct{}

type MineBlockResponse struct {
	Message string       `json:"message"`
	Block   *model.Block `json:"block"`
}

type GetChainRequest struct{}

type GetChainResponse struct {
	Chain  []model.Block `json:"chain"`
	Length int64         `json:"length"`
}

// Fields are nil when the caller left them out.
type AddTransactionRequest struct {
	Sender   *string  `json:"sender"`
	Receiver *string  `json:"receiver"`
	Amount   *float64 `json:"amount"`
}

type AddTransactionResponse struct {
	Message string `json:"message"`
	// Index of the block the transaction will be folded into.
	Index int64 `json:"index"`
}

type ConnectNodesRequest struct {
	// Peer addresses, URL-like or host:port.
	Nodes []string `json:"nodes"`
}

type ConnectNodesResponse struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type CheckValidityRequest struct{}

type CheckValidityResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type ReplaceChainRequest struct{}

type ReplaceChainResponse struct {
	Replaced bool          `json:"replaced"`
	Message  string        `json:"message"`
	Chain    []model.Block `json:"chain"`
}
