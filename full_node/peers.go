package full_node

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/Luismorlan/shycoin/model"
)

// PeerRegistry is the set of known peers, keyed by host:port. It is independent of the ledger
// and has its own lock.
type PeerRegistry struct {
	m     sync.RWMutex
	peers map[string]struct{}
}

func NewPeerRegistry() *PeerRegistry {
	return &PeerRegistry{
		peers: make(map[string]struct{}),
	}
}

// NormalizePeerAddress extracts host:port from a URL-like address, lower-cased since host names
// are case insensitive. A bare host:port is read as if it had an http:// prefix.
func NormalizePeerAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrMalformedPeer, err)
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q has no network location", model.ErrMalformedPeer, address)
	}
	return strings.ToLower(u.Host), nil
}

// AddPeer adds the network location of address to the registry and returns it. Adding a known
// peer again is a no-op. No connection is attempted.
func (r *PeerRegistry) AddPeer(address string) (string, error) {
	addr, err := NormalizePeerAddress(address)
	if err != nil {
		return "", err
	}
	r.m.Lock()
	defer r.m.Unlock()
	r.peers[addr] = struct{}{}
	return addr, nil
}

// RegisterPeers adds every address. The list must be present; addresses that cannot be parsed
// are reported together after the valid ones are added.
func (r *PeerRegistry) RegisterPeers(addresses []string) error {
	if addresses == nil {
		return fmt.Errorf("%w: no peer list", model.ErrMalformedPeer)
	}
	var errs []error
	for _, a := range addresses {
		if _, err := r.AddPeer(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemovePeer forgets the peer, returns whether it was known.
func (r *PeerRegistry) RemovePeer(address string) bool {
	addr, err := NormalizePeerAddress(address)
	if err != nil {
		return false
	}
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.peers[addr]; !ok {
		return false
	}
	delete(r.peers, addr)
	return true
}

// Return all current peers, sorted.
func (r *PeerRegistry) Peers() []string {
	r.m.RLock()
	defer r.m.RUnlock()
	out := make([]string, 0, len(r.peers))
	for p := range r.peers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (r *PeerRegistry) Len() int {
	r.m.RLock()
	defer r.m.RUnlock()
	return len(r.peers)
}
