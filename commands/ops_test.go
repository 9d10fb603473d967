package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCommand(t *testing.T) {
	c, err := CreateCommand("start")
	assert.Nil(t, err)
	assert.Equal(t, Command{Op: START, Args: []string{}}, c)

	c, err = CreateCommand("add_peer  http://127.0.0.1:5001 ")
	assert.Nil(t, err)
	assert.Equal(t, ADD_PEER, c.Op)
	assert.Equal(t, []string{"http://127.0.0.1:5001"}, c.Args)

	c, err = CreateCommand("show 3")
	assert.Nil(t, err)
	assert.Equal(t, SHOW, c.Op)
}

func TestCreateCommandInvalid(t *testing.T) {
	for _, s := range []string{"", "   ", "fly", "start now", "add_peer", "add_peer a b", "show", "show -1", "show x"} {
		_, err := CreateCommand(s)
		assert.NotNil(t, err, s)
	}
}

func TestDefaultCommand(t *testing.T) {
	assert.True(t, NewDefaultCommand().IsDefault())
	assert.False(t, Command{Op: STOP}.IsDefault())
}

func TestCreateClientCommand(t *testing.T) {
	c, err := CreateClientCommand("transfer alice bob 2.5")
	assert.Nil(t, err)
	assert.Equal(t, TRANSFER, c.Op)
	assert.Equal(t, []string{"alice", "bob", "2.5"}, c.Args)

	c, err = CreateClientCommand("connect 127.0.0.1 10000")
	assert.Nil(t, err)
	assert.Equal(t, CONNECT, c.Op)

	c, err = CreateClientCommand("add_nodes http://127.0.0.1:5002 127.0.0.1:5003")
	assert.Nil(t, err)
	assert.Len(t, c.Args, 2)
}

func TestCreateClientCommandInvalid(t *testing.T) {
	for _, s := range []string{"", "transfer alice bob", "transfer alice bob many", "transfer a b NaN",
		"connect nowhere 10000", "connect 127.0.0.1 port", "add_nodes", "get_chain now", "balance"} {
		_, err := CreateClientCommand(s)
		assert.NotNil(t, err, s)
	}
}

func TestDrain(t *testing.T) {
	ctl := make(chan Command, 2)
	assert.Equal(t, 0, Drain(ctl))

	// A second stop left behind by an already finished mining task.
	ctl <- Command{Op: STOP}
	ctl <- Command{Op: STOP}
	assert.Equal(t, 2, Drain(ctl))
	select {
	case c := <-ctl:
		t.Fatalf("stale command %v survived", c)
	default:
	}
}
