package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/Luismorlan/shycoin/commands"
	"github.com/Luismorlan/shycoin/model"
)

// Number of leading zero hex characters a proof digest needs. Difficulty is fixed.
const PROOF_DIFFICULTY = 4

// GetBlockBytes returns the canonical encoding of a block: json with every object's keys in
// sorted order, so the bytes do not depend on struct field order or construction order.
func GetBlockBytes(block *model.Block) ([]byte, error) {
	b := *block
	// A block without transactions hashes the same whether the slice is nil or empty.
	if b.Transactions == nil {
		b.Transactions = []model.Transaction{}
	}
	raw, err := json.Marshal(&b)
	if err != nil {
		return nil, err
	}

	// Decode into generic maps and encode again, encoding/json sorts map keys.
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

// HashBlock returns the hex SHA256 digest of the block's canonical encoding.
func HashBlock(block *model.Block) (string, error) {
	blockBytes, err := GetBlockBytes(block)
	if err != nil {
		return "", err
	}
	return SHA256Hex(blockBytes), nil
}

// ProofDigest is the hex digest the proof of work is judged on: SHA256 of the decimal string of
// nonce^2 - previousNonce^2.
//
// The puzzle only involves the two nonces. A valid proof does not commit to the block's
// transactions or previous hash.
func ProofDigest(nonce int64, previousNonce int64) string {
	n := big.NewInt(nonce)
	n.Mul(n, n)
	p := big.NewInt(previousNonce)
	p.Mul(p, p)
	n.Sub(n, p)
	return SHA256Hex([]byte(n.String()))
}

// VerifyProof recomputes the digest for nonce and checks the difficulty. It never searches.
func VerifyProof(nonce int64, previousNonce int64) bool {
	return HexHasLeadingZeros(ProofDigest(nonce, previousNonce), PROOF_DIFFICULTY)
}

// Solve returns the smallest nonce >= 1 solving the puzzle relative to previousNonce.
func Solve(previousNonce int64) int64 {
	nonce := int64(1)
	for !VerifyProof(nonce, previousNonce) {
		nonce++
	}
	return nonce
}

// SolveWithInterrupt runs the same search as Solve, but gives up as soon as a command arrives on
// ctl. The search has no side effects, so an interrupted search can simply be discarded.
func SolveWithInterrupt(previousNonce int64, ctl chan commands.Command) (int64, commands.Command, error) {
	for nonce := int64(1); nonce > 0; nonce++ {
		select {
		case c := <-ctl:
			return 0, c, errors.New("mining interrupted")
		default:
		}
		if VerifyProof(nonce, previousNonce) {
			return nonce, commands.NewDefaultCommand(), nil
		}
	}
	return 0, commands.NewDefaultCommand(), errors.New("failed to find any nonce")
}

// ValidateChain checks a chain block by block:
// 1. Genesis sits at index 1 and every block's index is one greater than its predecessor's.
//    This holds the Blockchain index invariant for chains taken from peers, so a single block
//    chain is only valid when that block is a genesis at index 1.
// 2. Every block's previous hash is the hash of its predecessor.
// 3. Every block's nonce solves the puzzle relative to its predecessor's nonce.
// It returns nil for a valid chain and an error wrapping model.ErrInvalidChain otherwise.
func ValidateChain(chain []model.Block) error {
	if len(chain) == 0 {
		return fmt.Errorf("%w: %v", model.ErrInvalidChain, model.ErrEmptyChain)
	}
	if chain[0].Index != model.GENESIS_INDEX {
		return fmt.Errorf("%w: first block has index %d", model.ErrInvalidChain, chain[0].Index)
	}
	for i := 1; i < len(chain); i++ {
		prev := &chain[i-1]
		cur := &chain[i]
		if cur.Index != prev.Index+1 {
			return fmt.Errorf("%w: block %d has index %d", model.ErrInvalidChain, i+1, cur.Index)
		}
		prevHash, err := HashBlock(prev)
		if err != nil {
			return fmt.Errorf("%w: block %d cannot be hashed: %v", model.ErrInvalidChain, i, err)
		}
		if cur.PreviousHash != prevHash {
			return fmt.Errorf("%w: block %d previous hash mismatch", model.ErrInvalidChain, cur.Index)
		}
		if !VerifyProof(cur.Nonce, prev.Nonce) {
			return fmt.Errorf("%w: block %d fails proof of work", model.ErrInvalidChain, cur.Index)
		}
	}
	return nil
}

// IsValidChain reports whether ValidateChain accepts the chain. It does not mutate the chain.
func IsValidChain(chain []model.Block) bool {
	return ValidateChain(chain) == nil
}
