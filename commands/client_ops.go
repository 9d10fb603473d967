package commands

import (
	"errors"
	"math"
	"net"
	"strconv"
	"strings"
)

const (
	// do nothing operation
	NOOP Operation = iota
	// Submit a transaction to the connected full node.
	TRANSFER
	// Connect a full node with ip address and port
	CONNECT
	// Fetch the chain of the connected full node.
	GET_CHAIN
	// Ask the connected full node to mine a block.
	MINE_BLOCK
	// Register peers on the connected full node.
	ADD_NODES
	// Ask the connected full node to reconcile with its peers.
	SYNC_CHAIN
	// Ask the connected full node whether its chain is valid.
	VALIDATE_CHAIN
)

type ClientCommand struct {
	Op   Operation
	Args []string
}

func (c ClientCommand) IsValid() bool {
	switch c.Op {
	case TRANSFER:
		if len(c.Args) != 3 {
			return false
		}
		v, err := strconv.ParseFloat(c.Args[2], 64)
		return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
	case CONNECT:
		if len(c.Args) != 2 {
			return false
		}
		ip := net.ParseIP(c.Args[0])
		return (ip != nil || c.Args[0] == "localhost") && portRegex.MatchString(c.Args[1])
	case ADD_NODES:
		return len(c.Args) > 0
	case GET_CHAIN, MINE_BLOCK, SYNC_CHAIN, VALIDATE_CHAIN:
		return len(c.Args) == 0
	default:
		return false
	}
}

func CreateClientCommand(s string) (ClientCommand, error) {
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return ClientCommand{}, errors.New("command is empty")
	}
	cmd := ClientCommand{}
	switch ss[0] {
	case "transfer":
		cmd.Op = TRANSFER
	case "connect":
		cmd.Op = CONNECT
	case "get_chain":
		cmd.Op = GET_CHAIN
	case "mine":
		cmd.Op = MINE_BLOCK
	case "add_nodes":
		cmd.Op = ADD_NODES
	case "sync":
		cmd.Op = SYNC_CHAIN
	case "validate":
		cmd.Op = VALIDATE_CHAIN
	default:
		cmd.Op = NOOP
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return ClientCommand{}, errors.New("invalid command")
	}
	return cmd, nil
}
