package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/grandcat/zeroconf"
)

const DOMAIN = "local."

// Advertise publishes this node on the local network until the returned server is shut down.
func Advertise(instance string, serviceName string, port int) (*zeroconf.Server, error) {
	return zeroconf.Register(instance, serviceName, DOMAIN, port, []string{"id=" + instance}, nil)
}

// Browse looks for other nodes until ctx is done and calls found with each host:port it
// resolves. Entries of this node itself, named self, are ignored.
func Browse(ctx context.Context, serviceName string, self string, found func(addr string), log *slog.Logger) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("create mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			if entry.Instance == self {
				continue
			}
			addr, ok := EntryAddress(entry)
			if !ok {
				log.Debug("discovered node has no address", "instance", entry.Instance)
				continue
			}
			log.Info("discovered node", "instance", entry.Instance, "addr", addr)
			found(addr)
		}
	}()

	if err := resolver.Browse(ctx, serviceName, DOMAIN, entries); err != nil {
		return fmt.Errorf("browse %s: %w", serviceName, err)
	}
	<-ctx.Done()
	return nil
}

// EntryAddress picks the address to dial for a discovered entry, IPv4 first.
func EntryAddress(entry *zeroconf.ServiceEntry) (string, bool) {
	if entry == nil || entry.Port <= 0 {
		return "", false
	}
	port := strconv.Itoa(entry.Port)
	if len(entry.AddrIPv4) > 0 {
		return net.JoinHostPort(entry.AddrIPv4[0].String(), port), true
	}
	if len(entry.AddrIPv6) > 0 {
		return net.JoinHostPort(entry.AddrIPv6[0].String(), port), true
	}
	return "", false
}
