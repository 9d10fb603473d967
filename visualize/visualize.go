package visualize

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/Luismorlan/shycoin/model"
	"github.com/Luismorlan/shycoin/utils"
	"github.com/bradleyjkemp/memviz"
)

// Rendering model. Hashes are shortened and amounts formatted so the graph stays readable.
type transaction struct {
	sender   string
	receiver string
	amount   string
}

type block struct {
	index    int64
	hash     string
	prevHash string
	nonce    int64
	txs      []transaction
	next     *block
}

// Given the whole chain, return the linked list from the d-th last block to the tail.
func constructData(chain []model.Block, d int) (*block, error) {
	if len(chain) == 0 {
		return nil, model.ErrEmptyChain
	}
	start := len(chain) - d
	if d <= 0 || start < 0 {
		start = 0
	}

	var head, prev *block
	for i := start; i < len(chain); i++ {
		n, err := blockToBlock(&chain[i])
		if err != nil {
			return nil, err
		}
		if prev == nil {
			head = n
		} else {
			prev.next = n
		}
		prev = n
	}
	return head, nil
}

// The hash is just too long to render, instead we take only first 3 and last 3
// characters and replace the middle part with '...'. E.g. "abcdefghi" will be rendered as "abc...ghi"
func shortenString(s string) string {
	if len(s) < 9 {
		return s
	}
	return fmt.Sprintf("%s...%s", s[0:3], s[len(s)-3:])
}

func blockToBlock(b *model.Block) (*block, error) {
	hash, err := utils.HashBlock(b)
	if err != nil {
		return nil, err
	}
	n := &block{
		index:    b.Index,
		hash:     shortenString(hash),
		prevHash: shortenString(b.PreviousHash),
		nonce:    b.Nonce,
	}
	for _, tx := range b.Transactions {
		n.txs = append(n.txs, transaction{
			sender:   shortenString(tx.Sender),
			receiver: shortenString(tx.Receiver),
			amount:   strconv.FormatFloat(tx.Amount, 'f', -1, 64),
		})
	}
	return n, nil
}

// Entry to this package, where:
// chain: the chain as tracked by full node.
// d: number of trailing blocks to render, everything when not positive.
// id: unique id of the full node.
// Writes a dot graph to the temp dir and returns its path. When graphviz is installed a png
// is rendered next to it and that path is returned instead.
func Render(chain []model.Block, d int, id string) (string, error) {
	head, err := constructData(chain, d)
	if err != nil {
		return "", err
	}

	buf := &bytes.Buffer{}
	memviz.Map(buf, head)

	fileName := filepath.Join(os.TempDir(), "chaindata-"+id+".dot")
	if err := os.WriteFile(fileName, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	if _, err := exec.LookPath("dot"); err != nil {
		return fileName, nil
	}
	outputName := filepath.Join(os.TempDir(), "rendered-chain-"+id+".png")
	if err := exec.Command("dot", "-Tpng", fileName, "-o", outputName).Run(); err != nil {
		return fileName, nil
	}
	return outputName, nil
}
