package utils

import (
	"testing"

	"github.com/Luismorlan/shycoin/model"
	"github.com/stretchr/testify/assert"
)

func TestCopyBlocksIsDeep(t *testing.T) {
	blocks := []model.Block{createTestBlock(), createTestBlock()}
	cp, err := CopyBlocks(blocks)
	assert.Nil(t, err)
	assert.Equal(t, blocks, cp)

	cp[0].Transactions[0].Amount = 100
	cp[1].Nonce = 99
	assert.Equal(t, 1.5, blocks[0].Transactions[0].Amount)
	assert.Equal(t, int64(3), blocks[1].Nonce)
}

func TestCopyTransactions(t *testing.T) {
	cp, err := CopyTransactions(nil)
	assert.Nil(t, err)
	assert.NotNil(t, cp)
	assert.Len(t, cp, 0)

	txs := []model.Transaction{{Sender: "a", Receiver: "b", Amount: 1}}
	cp, err = CopyTransactions(txs)
	assert.Nil(t, err)
	cp[0].Sender = "z"
	assert.Equal(t, "a", txs[0].Sender)
}
