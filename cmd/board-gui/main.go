// Package main is the graphical front end: digital pins drawn as LEDs,
// analog channels as bars, the console tail underneath. Typed
// characters feed the shell stream directly.
package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"go.creack.net/charsh/assets"
	"go.creack.net/charsh/board"
	"go.creack.net/charsh/cli"
	"go.creack.net/charsh/shell"
)

const initialScreenWidth, initialScreenHeight = 800, 600

var fontFace = text.NewGoXFace(bitmapfont.Face)

// console is the scrollback shared between the shell goroutine (writer)
// and the draw loop (reader).
type console struct {
	mu    sync.Mutex
	lines []string
	cur   string
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range p {
		if b == '\n' {
			c.lines = append(c.lines, c.cur)
			if len(c.lines) > 12 {
				c.lines = c.lines[len(c.lines)-12:]
			}
			c.cur = ""
			continue
		}
		c.cur += string(b)
	}
	return len(p), nil
}

func (c *console) Tail() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(append(append([]string{}, c.lines...), c.cur), "\n")
}

type Game struct {
	sh      *shell.Shell
	sim     *board.Sim
	stream  *shell.IOStream
	console *console

	runes []rune
}

func (g *Game) Update() error {
	g.runes = ebiten.AppendInputChars(g.runes[:0])
	for _, r := range g.runes {
		if r > 0 && r < 128 {
			g.console.Write([]byte{byte(r)})
			go g.stream.Feed([]byte{byte(r)})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.console.Write([]byte{'\n'})
		go g.stream.Feed([]byte{'\n'})
	}

	// Drain board events; the pin state itself is polled in Draw.
	for {
		select {
		case <-g.sim.Events:
		default:
			return nil
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x14, B: 0x18, A: 0xff})

	lineH := fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent

	label := func(x, y float64, s string, clr color.Color) {
		textOp := &text.DrawOptions{}
		textOp.GeoM.Translate(x, y)
		textOp.LineSpacing = lineH
		textOp.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, s, fontFace, textOp)
	}

	// Digital pins as LEDs.
	pins := g.sim.PinState()
	const perRow = 10
	for i, p := range pins {
		x := float32(40 + (i%perRow)*72)
		y := float32(48 + (i/perRow)*72)
		led := color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
		if p.Value != 0 {
			led = color.RGBA{R: 0x30, G: 0xe0, B: 0x50, A: 0xff}
		}
		vector.DrawFilledCircle(screen, x, y, 16, led, true)
		label(float64(x)-12, float64(y)+20, fmt.Sprintf("%2d", i), color.White)

		// Analog level as a small bar next to the LED.
		h := float32(p.Analog%256) / 256 * 32
		vector.DrawFilledRect(screen, x+22, y+16-h, 6, h, color.RGBA{R: 0xe0, G: 0xa0, B: 0x30, A: 0xff}, true)
	}

	// Stack line.
	parts := make([]string, 0, 8)
	for _, elem := range g.sh.Stack() {
		parts = append(parts, fmt.Sprint(elem))
	}
	label(40, 300, fmt.Sprintf("stack %d: %s", len(parts), strings.Join(parts, " ")), color.RGBA{G: 0xc0, B: 0xff, A: 0xff})

	// Console tail.
	label(40, 330, g.console.Tail(), color.White)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return initialScreenWidth, initialScreenHeight
}

func main() {
	log.SetFlags(0)
	opts, err := cli.ParseConfig()
	if err != nil {
		log.Fatalf("Failed to parse CLI config: %s.", err)
	}

	sim := board.NewSim(opts.Pins)
	sim.Events = make(chan board.Event, 64)

	cons := &console{}
	stream := shell.NewChanStream(cons)
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

	// Shell pump.
	go func() {
		var buf []byte
		for {
			if !sh.ReadLine(&buf) {
				time.Sleep(2 * time.Millisecond)
				continue
			}
			if err := sh.ExecuteLine(buf); err != nil {
				fmt.Fprintf(cons, "? %s\n", err)
			}
			buf = buf[:0]
		}
	}()

	game := &Game{
		sh:      sh,
		sim:     sim,
		stream:  stream,
		console: cons,
	}

	ebiten.SetWindowTitle("charsh board")
	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{
		InitUnfocused: true,
	}); err != nil {
		log.Fatal(err)
	}
}
