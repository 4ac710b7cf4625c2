// Package main is the terminal dashboard front end: the shell console
// in one pane, live stack, dictionary, pin and event views around it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/charsh/assets"
	"go.creack.net/charsh/board"
	"go.creack.net/charsh/cli"
	"go.creack.net/charsh/op"
	"go.creack.net/charsh/shell"
)

type Viewer struct {
	app  *tview.Application
	root *tview.Flex

	console   *tview.TextView
	input     *tview.InputField
	stateView *tview.TextView
	stackView *tview.TextView
	dictView  *tview.Table
	pinView   *tview.Table
	logView   *tview.TextView

	sh     *shell.Shell
	sim    *board.Sim
	stream *shell.IOStream

	ctx    context.Context
	cancel context.CancelFunc
}

func NewViewer(ctx context.Context, opts *cli.Options) *Viewer {
	app := tview.NewApplication().EnableMouse(true)

	console := tview.NewTextView().SetDynamicColors(true)
	console.SetTitle("Console").SetBorder(true)
	console.ScrollToEnd()
	console.SetChangedFunc(func() { app.Draw() })

	input := tview.NewInputField().SetLabel("> ")

	stateView := tview.NewTextView()
	stateView.SetTitle("Shell").SetBorder(true)

	stackView := tview.NewTextView()
	stackView.SetTitle("Stack").SetBorder(true)

	dictView := tview.NewTable().SetBorders(false)
	dictView.SetTitle("Dictionary").SetBorder(true)

	pinView := tview.NewTable().SetBorders(false)
	pinView.SetTitle("Pins").SetBorder(true)

	logView := tview.NewTextView()
	logView.SetTitle("Events").SetBorder(true)
	logView.ScrollToEnd()

	leftPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(console, 0, 1, false).
		AddItem(input, 1, 0, true)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(stateView, 0, 2, false).
		AddItem(stackView, 0, 2, false).
		AddItem(dictView, 0, 3, false).
		AddItem(pinView, 0, 4, false).
		AddItem(logView, 0, 3, false)

	root := tview.NewFlex().
		AddItem(leftPane, 0, 2, true).
		AddItem(rightPane, 0, 1, false)

	sim := board.NewSim(opts.Pins)
	sim.Events = make(chan board.Event, 64)

	stream := shell.NewChanStream(tview.ANSIWriter(console))
	sh := shell.New(stream, shell.Config{
		StackMax:    opts.StackMax,
		VarMax:      opts.VarMax,
		FullOpNames: opts.FullNames,
		Board:       sim,
	})
	sh.SetTrace(opts.Trace)
	for name, src := range assets.Scripts() {
		sh.DefScript(name, src)
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Viewer{
		app:  app,
		root: root,

		console:   console,
		input:     input,
		stateView: stateView,
		stackView: stackView,
		dictView:  dictView,
		pinView:   pinView,
		logView:   logView,

		sh:     sh,
		sim:    sim,
		stream: stream,

		ctx:    ctx,
		cancel: cancel,
	}
}

func (v *Viewer) Stop() {
	v.app.Stop()
	v.cancel()
}

func (v *Viewer) Init() {
	v.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		line := v.input.GetText() + "\n"
		v.input.SetText("")
		fmt.Fprintf(v.console, "[yellow]%s[-]", tview.Escape(line))
		go v.stream.Feed([]byte(line))
	})

	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			v.Stop()
			return nil
		case tcell.KeyF2:
			v.sh.SetTrace(!v.sh.GetTrace())
			return nil
		}
		return event
	})

	// Event pump: board accesses land in the log view.
	go func() {
		for {
			select {
			case ev := <-v.sim.Events:
				v.app.QueueUpdateDraw(func() {
					switch ev.Type {
					case board.EvDelay:
						fmt.Fprintf(v.logView, "%8d %s %dms\n", ev.When, ev.Type, ev.Value)
					case board.EvYield:
						fmt.Fprintf(v.logView, "%8d %s\n", ev.When, ev.Type)
					default:
						fmt.Fprintf(v.logView, "%8d %s pin %d = %d\n", ev.When, ev.Type, ev.Pin, ev.Value)
					}
					v.drawPins()
				})
			case <-v.ctx.Done():
				return
			}
		}
	}()

	// Shell pump: assemble lines from the stream, execute, redraw.
	go func() {
		var buf []byte
		for {
			select {
			case <-v.ctx.Done():
				return
			default:
			}
			if !v.sh.ReadLine(&buf) {
				time.Sleep(2 * time.Millisecond)
				continue
			}
			if err := v.sh.ExecuteLine(buf); err != nil {
				fmt.Fprintf(v.console, "[red]? %s[-]\n", err)
			}
			buf = buf[:0]
			v.refresh()
		}
	}()

	// Initial paint once the event loop is up.
	go v.refresh()
}

// refresh snapshots the shell state and redraws the side panes. Called
// from the shell goroutine between lines, so the state is quiescent.
func (v *Viewer) refresh() {
	stack := v.sh.Stack()
	depth := v.sh.Depth()
	cycle := v.sh.Cycle()
	trace := v.sh.GetTrace()
	entries := v.sh.Entries()
	type entry struct {
		name string
		val  shell.Value
	}
	dict := make([]entry, 0, entries)
	for i := 0; i < entries; i++ {
		name, _ := v.sh.Name(i)
		dict = append(dict, entry{name: name, val: v.sh.Read(shell.Value(i))})
	}

	v.app.QueueUpdateDraw(func() {
		v.stateView.Clear()
		fmt.Fprintf(v.stateView, "Cycle: %d\n", cycle)
		fmt.Fprintf(v.stateView, "Trace: %v (F2)\n", trace)
		fmt.Fprintf(v.stateView, "Entries: %d\n", entries)

		v.stackView.Clear()
		parts := make([]string, 0, len(stack))
		for _, elem := range stack {
			parts = append(parts, fmt.Sprint(elem))
		}
		fmt.Fprintf(v.stackView, "%d: %s\n", depth, strings.Join(parts, " "))

		v.dictView.Clear()
		for i, e := range dict {
			v.dictView.SetCell(i, 0, tview.NewTableCell(fmt.Sprintf("%3d", i)))
			v.dictView.SetCell(i, 1, tview.NewTableCell(e.name).SetAttributes(tcell.AttrBold))
			v.dictView.SetCell(i, 2, tview.NewTableCell(fmt.Sprint(e.val)).SetAlign(tview.AlignRight))
		}

		v.drawPins()
	})
}

func (v *Viewer) drawPins() {
	modes := map[int]string{
		op.ModeInput:       "in",
		op.ModeOutput:      "out",
		op.ModeInputPullup: "pullup",
	}
	for i, elem := range []string{"pin", "mode", "value", "analog"} {
		cell := tview.NewTableCell(elem).
			SetAttributes(tcell.AttrBold).
			SetAlign(tview.AlignCenter)
		v.pinView.SetCell(0, i, cell).SetFixed(1, i)
	}
	for i, p := range v.sim.PinState() {
		level := "low"
		color := tcell.ColorDimGray
		if p.Value != 0 {
			level = "high"
			color = tcell.ColorGreen
		}
		for j, content := range []string{
			fmt.Sprint(i),
			modes[p.Mode],
			level,
			fmt.Sprint(p.Analog),
		} {
			cell := tview.NewTableCell(content).SetAlign(tview.AlignRight)
			cell.SetTextColor(color)
			v.pinView.SetCell(i+1, j, cell)
		}
	}
}

func main() {
	log.SetFlags(0)
	opts, err := cli.ParseConfig()
	if err != nil {
		log.Fatalf("Failed to parse CLI config: %s.", err)
	}

	v := NewViewer(context.Background(), opts)
	v.Init()

	// Script files run before the UI takes over the terminal output.
	for _, path := range opts.Scripts {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read script %q: %s.", path, err)
		}
		go v.stream.Feed(append(data, '\n'))
	}

	if err := v.app.SetRoot(v.root, true).SetFocus(v.input).Run(); err != nil {
		panic(err)
	}
}
