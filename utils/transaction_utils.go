package utils

import (
	"fmt"
	"math"

	"github.com/Luismorlan/shycoin/model"
)

// NewTransaction builds a transaction from request fields. A field is missing when it is absent
// (nil); empty strings are accepted. A non-finite amount cannot be encoded and counts as
// malformed. Nothing else about the parties or the amount is checked.
func NewTransaction(sender *string, receiver *string, amount *float64) (model.Transaction, error) {
	if sender == nil {
		return model.Transaction{}, fmt.Errorf("%w: missing sender", model.ErrMalformedTransaction)
	}
	if receiver == nil {
		return model.Transaction{}, fmt.Errorf("%w: missing receiver", model.ErrMalformedTransaction)
	}
	if amount == nil {
		return model.Transaction{}, fmt.Errorf("%w: missing amount", model.ErrMalformedTransaction)
	}
	if !IsEncodableAmount(*amount) {
		return model.Transaction{}, fmt.Errorf("%w: amount %v is not a finite number", model.ErrMalformedTransaction, *amount)
	}
	return model.Transaction{
		Sender:   *sender,
		Receiver: *receiver,
		Amount:   *amount,
	}, nil
}

// IsEncodableAmount reports whether the amount survives json encoding, which block hashing
// depends on.
func IsEncodableAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// Create the transaction paying the miner of a block, sent from the node's own identifier.
func CreateRewardTx(nodeID string, miner string, reward float64) model.Transaction {
	return model.Transaction{
		Sender:   nodeID,
		Receiver: miner,
		Amount:   reward,
	}
}
