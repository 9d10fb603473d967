package logging

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, pterm.LogLevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, pterm.LogLevelWarn, parseLevel(" warning "))
	assert.Equal(t, pterm.LogLevelError, parseLevel("error"))
	assert.Equal(t, pterm.LogLevelInfo, parseLevel(""))
	assert.Equal(t, pterm.LogLevelInfo, parseLevel("verbose"))
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter("info", buf)
	logger.Info("mined block", "index", 2)
	assert.Contains(t, buf.String(), "mined block")
}
