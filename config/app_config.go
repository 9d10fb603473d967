package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"time"

	"gopkg.in/yaml.v2"
)

// This is the global app config for a full node. yaml keys are the lower-cased field names,
// e.g. coinbase_reward.
type AppConfig struct {
	// Amount paid to the miner of every block.
	COINBASE_REWARD float64
	// Receiver of the mining reward.
	MINER string
	// Budget for fetching one peer's chain during reconciliation, retries included.
	PEER_TIMEOUT_MS int
	// How many times a failed chain fetch is retried inside the budget.
	PEER_RETRIES int
	// Restart continuous mining when reconciliation swaps the chain.
	REMINE_ON_TAIL_CHANGE bool
	// debug|info|warn|error
	LOG_LEVEL string
	// mDNS service name used to advertise and find other nodes.
	DISCOVERY_SERVICE string
	// Largest grpc message sent or received, in bytes. A whole chain travels in one message.
	MAX_MESSAGE_BYTES int
}

// 256 MiB, about a million blocks.
const DEFAULT_MAX_MESSAGE_BYTES = 256 << 20

// Default returns the config used for any key the yaml file leaves out.
func Default() AppConfig {
	return AppConfig{
		COINBASE_REWARD:       1,
		MINER:                 "miner",
		PEER_TIMEOUT_MS:       3000,
		PEER_RETRIES:          2,
		REMINE_ON_TAIL_CHANGE: true,
		LOG_LEVEL:             "info",
		DISCOVERY_SERVICE:     "_shycoin._tcp",
		MAX_MESSAGE_BYTES:     DEFAULT_MAX_MESSAGE_BYTES,
	}
}

// Load reads a yaml config on top of the defaults and validates it.
func Load(path string) (AppConfig, error) {
	c := Default()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(yamlFile, &c); err != nil {
		return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func (c AppConfig) Validate() error {
	if math.IsNaN(c.COINBASE_REWARD) || math.IsInf(c.COINBASE_REWARD, 0) {
		return errors.New("coinbase_reward must be a finite number")
	}
	if c.MINER == "" {
		return errors.New("miner must not be empty")
	}
	if c.PEER_TIMEOUT_MS <= 0 {
		return errors.New("peer_timeout_ms must be positive")
	}
	if c.PEER_RETRIES < 0 {
		return errors.New("peer_retries must not be negative")
	}
	if c.MAX_MESSAGE_BYTES <= 0 {
		return errors.New("max_message_bytes must be positive")
	}
	return nil
}

// PeerTimeout is PEER_TIMEOUT_MS as a duration.
func (c AppConfig) PeerTimeout() time.Duration {
	return time.Duration(c.PEER_TIMEOUT_MS) * time.Millisecond
}
