package model

import (
	"errors"
	"fmt"
)

var (
	// The chain has no block at all. Genesis makes this unreachable in normal operation.
	ErrEmptyChain = errors.New("chain is empty")
	// A transaction submission is missing one of sender, receiver or amount.
	ErrMalformedTransaction = errors.New("malformed transaction")
	// A peer address has no network location.
	ErrMalformedPeer = errors.New("malformed peer address")
	// A chain fails previous-hash linkage or proof of work.
	ErrInvalidChain = errors.New("invalid chain")
)

// PeerUnreachableError is returned when a peer's chain could not be fetched.
type PeerUnreachableError struct {
	Addr string
	Err  error
}

func (e *PeerUnreachableError) Error() string {
	return fmt.Sprintf("peer %s unreachable: %v", e.Addr, e.Err)
}

func (e *PeerUnreachableError) Unwrap() error {
	return e.Err
}
