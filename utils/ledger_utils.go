package utils

import (
	"github.com/Luismorlan/shycoin/model"
	"github.com/jinzhu/copier"
)

// CopyBlocks returns a deep copy of blocks, so the caller can hand it out without sharing
// transaction slices with the ledger.
func CopyBlocks(blocks []model.Block) ([]model.Block, error) {
	out := make([]model.Block, 0, len(blocks))
	if len(blocks) == 0 {
		return out, nil
	}
	if err := copier.CopyWithOption(&out, &blocks, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// CopyTransactions returns a deep copy of txs, never nil.
func CopyTransactions(txs []model.Transaction) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(txs))
	if len(txs) == 0 {
		return out, nil
	}
	if err := copier.CopyWithOption(&out, &txs, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return out, nil
}
