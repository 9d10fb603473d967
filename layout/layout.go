package layout

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Luismorlan/shycoin/commands"
	"github.com/jroimartin/gocui"
)

const (
	PAST_CMD_VIEW = "pastcommand"
	INPUT_VIEW    = "input"
	LOGGER_VIEW   = "logger"
	MANUAL_VIEW   = "manual"
)

// History of entered lines, drawn by PastCmd on the next layout pass.
type history struct {
	m     sync.Mutex
	lines []string
}

func (h *history) push(s string) {
	h.m.Lock()
	defer h.m.Unlock()
	h.lines = append(h.lines, s)
}

func (h *history) drain() []string {
	h.m.Lock()
	defer h.m.Unlock()
	out := h.lines
	h.lines = nil
	return out
}

// PastCmd is the ViewManager that logs past command.
type PastCmd struct {
	name string
	h    *history
}

// Input box for command. submit parses a line and forwards it, returning the parse error.
type Input struct {
	name   string
	h      *history
	submit func(line string) error
}

type Logger struct {
	name string
}

type Manual struct {
	name string
	text string
}

func (pc *PastCmd) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom left corner.
	v, err := g.SetView(pc.name, 1, maxY*2/3, maxX/3, maxY-6)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Autoscroll = true
	v.Wrap = true
	for _, line := range pc.h.drain() {
		fmt.Fprintln(v, "> "+line)
	}
	return nil
}

func (i *Input) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom.
	v, err := g.SetView(i.name, 1, maxY-5, maxX-1, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Wrap = true
	v.Autoscroll = true
	v.Editor = i
	v.Editable = true
	return nil
}

func (l *Logger) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Right side.
	v, err := g.SetView(l.name, maxX/3+1, 1, maxX-1, maxY-6)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Autoscroll = true
	v.Wrap = true
	return nil
}

func (m *Manual) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Top left corner.
	v, err := g.SetView(m.name, 1, 1, maxX/3, maxY*2/3-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Wrap = true
	v.Clear()
	fmt.Fprintln(v, m.text)
	return nil
}

func (i *Input) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	switch {
	case key == gocui.KeyEnter:
		// Remove \n from string.
		s := strings.Replace(v.Buffer(), "\n", "", -1)
		line := s
		if err := i.submit(s); err != nil {
			line = s + "\n" + err.Error()
		}
		i.h.push(line)

		// Reset cursor.
		v.Clear()
		v.SetOrigin(0, 0)
		v.SetCursor(0, 0)

	case ch != 0 && mod == 0:
		v.EditWrite(ch)
	case key == gocui.KeySpace:
		v.EditWrite(' ')
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		v.EditDelete(true)
	}
}

func SetFocus(name string) func(g *gocui.Gui) error {
	return func(g *gocui.Gui) error {
		_, err := g.SetCurrentView(name)
		return err
	}
}

// Parse a full node command line and forward it to cmd.
func FullNodeSubmitter(cmd chan commands.Command) func(string) error {
	return func(s string) error {
		c, err := commands.CreateCommand(s)
		if err != nil {
			return err
		}
		// Never block the UI loop on the handler.
		go func() { cmd <- c }()
		return nil
	}
}

// Parse a wallet command line and forward it to cmd.
func WalletSubmitter(cmd chan commands.ClientCommand) func(string) error {
	return func(s string) error {
		c, err := commands.CreateClientCommand(s)
		if err != nil {
			return err
		}
		go func() { cmd <- c }()
		return nil
	}
}

// Create a GUI. Every entered line is given to submit, the manual is read from manualPath.
func CreateGui(submit func(string) error, manualPath string) (*gocui.Gui, error) {
	manual, err := os.ReadFile(manualPath)
	if err != nil {
		return nil, err
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	g.Cursor = true

	h := &history{}
	pc := &PastCmd{name: PAST_CMD_VIEW, h: h}
	input := &Input{name: INPUT_VIEW, h: h, submit: submit}
	l := &Logger{name: LOGGER_VIEW}
	m := &Manual{name: MANUAL_VIEW, text: string(manual)}
	focus := gocui.ManagerFunc(SetFocus(INPUT_VIEW))
	g.SetManager(pc, input, l, m, focus)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// LogWriter returns a writer appending to the logger view, suitable for a slog handler.
func LogWriter(g *gocui.Gui) io.Writer {
	return &viewWriter{g: g, name: LOGGER_VIEW}
}

type viewWriter struct {
	g    *gocui.Gui
	name string
}

func (w *viewWriter) Write(p []byte) (int, error) {
	s := string(p)
	w.g.Update(func(g *gocui.Gui) error {
		v, err := g.View(w.name)
		if err != nil {
			// The view is not laid out yet, drop the line.
			return nil
		}
		fmt.Fprint(v, s)
		return nil
	})
	return len(p), nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
