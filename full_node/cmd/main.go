package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Luismorlan/shycoin/client"
	"github.com/Luismorlan/shycoin/commands"
	"github.com/Luismorlan/shycoin/config"
	"github.com/Luismorlan/shycoin/discovery"
	"github.com/Luismorlan/shycoin/full_node"
	"github.com/Luismorlan/shycoin/layout"
	"github.com/Luismorlan/shycoin/logging"
	"github.com/Luismorlan/shycoin/service"
	"github.com/jroimartin/gocui"
	"github.com/pterm/pterm"
	"google.golang.org/grpc"
)

var (
	host       *string
	port       *string
	peers      *string
	configPath *string
	debugMode  *bool
	discover   *bool
)

func init() {
	host = flag.String("host", "localhost", "interface to listen on")
	port = flag.String("port", "10000", "port to listen to peers and wallet")
	peers = flag.String("peers", "", "comma separated peer addresses")
	configPath = flag.String("config_path", "full_node/cmd/config.yaml", "path to full node config")
	debugMode = flag.Bool("debug_mode", false, "Using debug mode will disable fancy GUI.")
	discover = flag.Bool("discover", false, "advertise this node and find peers with mDNS")
}

func ParseCommand(cmd chan commands.Command) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		c, err := commands.CreateCommand(strings.TrimSpace(text))
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		cmd <- c
	}
}

// Return a gui handle if not in debug mode.
func ListenOnInput(cmd chan commands.Command, debugMode bool) *gocui.Gui {
	if debugMode {
		go ParseCommand(cmd)
		return nil
	}
	g, err := layout.CreateGui(layout.FullNodeSubmitter(cmd), "full_node/cmd/usage.txt")
	if err != nil {
		pterm.Fatal.Println(err)
	}
	go func() {
		if err := g.MainLoop(); err != nil {
			g.Close()
			if err == gocui.ErrQuit {
				os.Exit(0)
			}
			os.Exit(1)
		}
	}()
	return g
}

// HandleCommand serves operator commands. Mining and reconciliation run in their own
// goroutines so the handler never blocks.
func HandleCommand(cmd chan commands.Command, server *full_node.FullNodeServer, fetcher *client.PeerFetcher, log *slog.Logger) {
	// A separate control is needed to make sure cmd is non-blocking
	// when we just want to restart task.
	ctl := make(chan commands.Command, 1)
	var running atomic.Bool
	for c := range cmd {
		switch c.Op {
		case commands.START:
			if !running.CompareAndSwap(false, true) {
				log.Warn("mining has already been started")
				continue
			}
			if n := commands.Drain(ctl); n > 0 {
				log.Debug("dropped stale mining signals", "count", n)
			}
			go func() {
				defer running.Store(false)
				for {
					_, res, err := server.Mine(ctl)
					if err != nil && res.IsDefault() {
						log.Error("mining failed", "err", err)
						return
					}
					if res.Op == commands.STOP {
						log.Info("mining stopped")
						return
					}
				}
			}()
		case commands.RESTART, commands.STOP:
			if !running.Load() {
				log.Warn("no running mining task to be restart or shut")
				continue
			}
			// Never block HandleCommand. HandleCommand is the only sender on ctl, so after a
			// drain the send below cannot block. A stop replaces a pending restart.
			select {
			case ctl <- c:
			default:
				if c.Op == commands.STOP {
					commands.Drain(ctl)
					ctl <- c
				}
			}
		case commands.MINE:
			go func() {
				if _, _, err := server.Mine(make(chan commands.Command)); err != nil {
					log.Error("mining failed", "err", err)
				}
			}()
		case commands.ADD_PEER:
			addr, err := server.Peers().AddPeer(c.Args[0])
			if err != nil {
				log.Error("invalid peer", "err", err)
				continue
			}
			log.Info("peer added", "peer", addr, "total", server.Peers().Len())
		case commands.REMOVE_PEER:
			if addr, err := full_node.NormalizePeerAddress(c.Args[0]); err == nil && server.Peers().RemovePeer(addr) {
				fetcher.Forget(addr)
				log.Info("peer removed", "peer", addr)
				continue
			}
			log.Warn("unknown peer", "peer", c.Args[0])
		case commands.LIST_PEER:
			log.Info("peers", "peers", strings.Join(server.Peers().Peers(), ","))
		case commands.SYNC:
			go server.Reconcile(context.Background())
		case commands.VALIDATE:
			log.Info("chain validity", "valid", server.IsChainValid())
		case commands.CHAIN:
			snapshot, err := server.ChainSnapshot()
			if err != nil {
				log.Error("failed to read chain", "err", err)
				continue
			}
			for _, b := range snapshot.Chain {
				log.Info("block", "index", b.Index, "nonce", b.Nonce, "previous_hash", b.PreviousHash, "txs", len(b.Transactions))
			}
		case commands.POOL:
			txs := server.FullNode().PendingTransactions()
			log.Info("pending transactions", "count", len(txs))
			for _, tx := range txs {
				log.Info("transaction", "sender", tx.Sender, "receiver", tx.Receiver, "amount", tx.Amount)
			}
		case commands.SHOW:
			d, _ := strconv.Atoi(c.Args[0])
			path, err := server.Show(d)
			if err != nil {
				log.Error("failed to render chain", "err", err)
				continue
			}
			log.Info("chain rendered", "path", path)
		default:
			log.Warn("unrecognized command", "op", c.Op)
		}
	}
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		pterm.Fatal.Println(err)
	}

	lis, err := net.Listen("tcp", net.JoinHostPort(*host, *port))
	if err != nil {
		pterm.Fatal.Printfln("failed to listen: %v", err)
	}

	// A command channel that takes external or internal command and handle it correspondingly.
	// Buffered so a swapped chain can ask for a mining restart without waiting.
	cmd := make(chan commands.Command, 8)
	g := ListenOnInput(cmd, *debugMode)
	var log *slog.Logger
	if g == nil {
		log = logging.New(cfg.LOG_LEVEL)
	} else {
		log = logging.NewWithWriter(cfg.LOG_LEVEL, layout.LogWriter(g))
	}

	fetcher := client.NewPeerFetcher(cfg.PEER_RETRIES, client.MaxMessageSize(cfg.MAX_MESSAGE_BYTES))
	defer fetcher.Close()
	server := full_node.NewFullNodeServer(cfg, fetcher, cmd, log)
	if *peers != "" {
		if err := server.RegisterPeers(strings.Split(*peers, ",")); err != nil {
			log.Warn("some peers were not added", "err", err)
		}
	}

	if *discover {
		p, _ := strconv.Atoi(*port)
		mdns, err := discovery.Advertise(server.FullNode().ID(), cfg.DISCOVERY_SERVICE, p)
		if err != nil {
			log.Error("failed to advertise node", "err", err)
		} else {
			defer mdns.Shutdown()
		}
		go func() {
			err := discovery.Browse(context.Background(), cfg.DISCOVERY_SERVICE, server.FullNode().ID(), func(addr string) {
				if _, err := server.Peers().AddPeer(addr); err != nil {
					log.Warn("invalid discovered peer", "peer", addr, "err", err)
				}
			}, log)
			if err != nil {
				log.Error("discovery stopped", "err", err)
			}
		}()
	}

	grpcServer := grpc.NewServer(full_node.ServerOptions(cfg)...)
	service.RegisterFullNodeServiceServer(grpcServer, server)
	log.Info("starting to serve", "addr", lis.Addr().String(), "id", server.FullNode().ID())

	go HandleCommand(cmd, server, fetcher, log)

	if err := grpcServer.Serve(lis); err != nil {
		log.Error("server stopped", "err", err)
	}
}
