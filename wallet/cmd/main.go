package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/shycoin/commands"
	"github.com/Luismorlan/shycoin/layout"
	"github.com/Luismorlan/shycoin/logging"
	"github.com/Luismorlan/shycoin/wallet"
	"github.com/jroimartin/gocui"
	"github.com/pterm/pterm"
)

var (
	debugMode *bool
	timeout   *time.Duration
	logLevel  *string
)

func init() {
	debugMode = flag.Bool("debug_mode", false, "Using debug mode will disable fancy GUI.")
	timeout = flag.Duration("timeout", 10*time.Second, "budget for each request to the full node")
	logLevel = flag.String("log_level", "info", "debug|info|warn|error")
}

// Return a gui handle if not in debug mode.
func ListenOnInput(cmd chan commands.ClientCommand, debugMode bool) *gocui.Gui {
	// Choose a fancy GUI
	if debugMode {
		go ParseCommand(cmd)
		return nil
	}
	g, err := layout.CreateGui(layout.WalletSubmitter(cmd), "wallet/cmd/usage.txt")
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

func main() {
	flag.Parse()

	cmd := make(chan commands.ClientCommand)
	// Start listening on input.
	g := ListenOnInput(cmd, *debugMode)
	var log *slog.Logger
	if g == nil {
		log = logging.New(*logLevel)
	} else {
		log = logging.NewWithWriter(*logLevel, layout.LogWriter(g))
	}

	w := wallet.NewWallet(*timeout, log)
	defer w.Close()
	HandleCommand(cmd, w, log)
}

// Parse command from stdio.
func ParseCommand(cmd chan commands.ClientCommand) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			close(cmd)
			return
		}
		c, err := commands.CreateClientCommand(strings.TrimSpace(text))
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		cmd <- c
	}
}

func HandleCommand(cmd chan commands.ClientCommand, w *wallet.Wallet, log *slog.Logger) {
	for c := range cmd {
		switch c.Op {
		case commands.CONNECT:
			if err := w.SetFullNodeConnection(c.Args[0], c.Args[1]); err != nil {
				log.Error("failed to connect to full node", "err", err)
			}
		case commands.TRANSFER:
			amount, _ := strconv.ParseFloat(c.Args[2], 64)
			resp, err := w.Transfer(c.Args[0], c.Args[1], amount)
			if err != nil {
				log.Error("fail to transfer", "err", err)
				continue
			}
			log.Info(resp.Message, "sender", c.Args[0], "receiver", c.Args[1], "amount", amount)
		case commands.MINE_BLOCK:
			resp, err := w.Mine(context.Background())
			if err != nil {
				log.Error("fail to mine", "err", err)
				continue
			}
			log.Info(resp.Message, "index", resp.Block.Index, "nonce", resp.Block.Nonce)
		case commands.GET_CHAIN:
			resp, err := w.GetChain()
			if err != nil {
				log.Error("fail to get chain", "err", err)
				continue
			}
			log.Info("chain\n" + wallet.FormatChain(resp))
		case commands.ADD_NODES:
			resp, err := w.AddNodes(c.Args)
			if err != nil {
				log.Error("fail to add nodes", "err", err)
				continue
			}
			log.Info(resp.Message, "total_nodes", strings.Join(resp.TotalNodes, ","))
		case commands.SYNC_CHAIN:
			resp, err := w.Sync()
			if err != nil {
				log.Error("fail to sync", "err", err)
				continue
			}
			log.Info(resp.Message, "length", len(resp.Chain))
		case commands.VALIDATE_CHAIN:
			resp, err := w.Validate()
			if err != nil {
				log.Error("fail to validate", "err", err)
				continue
			}
			log.Info(resp.Message)
		default:
			log.Warn("unimplemented command", "op", c.Op)
		}
	}
}
