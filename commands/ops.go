package commands

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

type Operation int

const PORT_REGEX = "^[0-9]{2,5}$"

var portRegex = regexp.MustCompile(PORT_REGEX)

const (
	DEFAULT Operation = iota
	// Start mining, infinite loop until explicit cancel.
	START
	// Restart mining when new tail replace the tail we mine on.
	RESTART
	// Stop mining completely.
	STOP
	// Mine exactly one block.
	MINE
	// Add a new peer to this full node.
	ADD_PEER
	// Remove a peer by address.
	REMOVE_PEER
	// List all peers.
	LIST_PEER
	// Reconcile with peers using the longest valid chain.
	SYNC
	// Check the local chain is valid.
	VALIDATE
	// Print the chain.
	CHAIN
	// Print pending transactions.
	POOL
	// Show the blockchain.
	SHOW
)

// A command contains a operation and many arguments.
type Command struct {
	Op   Operation
	Args []string
}

func (c Command) IsValid() bool {
	switch c.Op {
	case START, RESTART, STOP, MINE, LIST_PEER, SYNC, VALIDATE, CHAIN, POOL:
		return len(c.Args) == 0
	case ADD_PEER, REMOVE_PEER:
		return len(c.Args) == 1 && c.Args[0] != ""
	case SHOW:
		if len(c.Args) != 1 {
			return false
		}
		// depth must be a non-negative number.
		d, err := strconv.Atoi(c.Args[0])
		return err == nil && d >= 0
	default:
		return false
	}
}

// From string, create
func CreateCommand(s string) (Command, error) {
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return Command{}, errors.New("command is empty")
	}
	cmd := Command{}
	switch ss[0] {
	case "start":
		cmd.Op = START
	case "restart":
		cmd.Op = RESTART
	case "stop":
		cmd.Op = STOP
	case "mine":
		cmd.Op = MINE
	case "add_peer":
		cmd.Op = ADD_PEER
	case "remove_peer":
		cmd.Op = REMOVE_PEER
	case "list_peer":
		cmd.Op = LIST_PEER
	case "sync":
		cmd.Op = SYNC
	case "validate":
		cmd.Op = VALIDATE
	case "chain":
		cmd.Op = CHAIN
	case "pool":
		cmd.Op = POOL
	case "show":
		cmd.Op = SHOW
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return Command{}, errors.New("invalid command")
	}
	return cmd, nil
}

// Create a brand new command with default operation.
func NewDefaultCommand() Command {
	return Command{
		Op: DEFAULT,
	}
}

func (c Command) IsDefault() bool {
	return c.Op == DEFAULT
}

// Drain empties ctl without blocking, so a signal meant for a finished task cannot reach the
// next one. Returns how many commands were dropped.
func Drain(ctl chan Command) int {
	n := 0
	for {
		select {
		case <-ctl:
			n++
		default:
			return n
		}
	}
}
