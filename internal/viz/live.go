package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 45
	historyCapacity = 600
	maxStepsPerTick = 64
)

type TickMsg time.Time

// Model steps an experiment once per tick and draws its bodies. It
// ignores max_steps; the view runs until the user quits.
type Model struct {
	exp           *experiment.Experiment
	canvas        *Canvas
	viewport      Viewport
	step          int
	stepsPerTick  int
	interval      time.Duration
	running       bool
	energyHistory []float64
	momentum      []float64
	err           error
	recording     bool
	frames        []*image.Paletted
	gifPath       string
	showHelp      bool
}

func NewModel(exp *experiment.Experiment) Model {
	cfg := exp.Config()
	canvas := NewCanvas(width, height)
	return Model{
		exp:           exp,
		canvas:        canvas,
		viewport:      Fit(canvas, cfg.Width, cfg.Height),
		stepsPerTick:  1,
		interval:      time.Second / time.Duration(max(cfg.FPS, 1)),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		momentum:      make([]float64, 0, historyCapacity),
		gifPath:       "orbitsim.gif",
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "r":
			m.reset()
		case "n":
			if !m.running && m.err == nil {
				m.advance()
			}
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "t":
			NextTheme()
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick && m.err == nil; i++ {
				m.advance()
			}
		}
		if m.recording {
			m.draw()
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance performs one step and stops the view on a non-finite state.
func (m *Model) advance() {
	reg := m.exp.Registry()
	m.exp.Stepper().Step(reg)
	m.step++

	if idx, err := reg.Validate(); err != nil {
		m.err = &dynamo.SimulationError{Step: m.step, Body: idx, Wrapped: err}
		m.running = false
		return
	}

	states := reg.States()
	m.energyHistory = append(m.energyHistory, m.exp.Stepper().Config().Energy(states))
	m.momentum = append(m.momentum, physics.Momentum(states).Norm())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
		m.momentum = m.momentum[1:]
	}
}

func (m *Model) reset() {
	if err := m.exp.Reset(); err != nil {
		m.err = err
		return
	}
	m.step = 0
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	m.momentum = m.momentum[:0]
}

func (m *Model) resize(w, h int) {
	cols := max(w-statsWidth-8, 20)
	rows := max(h-3, 8)
	m.canvas = NewCanvas(cols, rows)
	cfg := m.exp.Config()
	m.viewport = Fit(m.canvas, cfg.Width, cfg.Height)
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawScene(m.canvas, m.exp.Registry().States(), m.viewport)
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render())

	cfg := m.exp.Config()
	states := m.exp.Registry().States()

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(cfg.Name)) + "\n")

	status, warn := "RUNNING", false
	switch {
	case m.err != nil:
		status, warn = "HALTED", true
	case !m.running:
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}
	s.WriteString(statusStyle(warn).Render(status) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(chart) + "\n\n")
	}

	label, value := labelStyle(), valueStyle()
	s.WriteString(label.Render("Step") + value.Render(fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(label.Render("Speed") + value.Render(fmt.Sprintf("%dx", m.stepsPerTick)) + "\n")
	s.WriteString(label.Render("Bodies") + value.Render(fmt.Sprintf("%d", len(states))) + "\n")
	if len(m.energyHistory) > 0 {
		s.WriteString(label.Render("Energy") + value.Render(fmt.Sprintf("%.3f", m.energyHistory[len(m.energyHistory)-1])) + "\n")
	}
	p := physics.Momentum(states)
	s.WriteString(label.Render("Momentum") + value.Render(fmt.Sprintf("%.3f", p.Norm())) + "\n")
	if len(m.momentum) > 1 {
		s.WriteString(label.Render("") + value.Render(SparklineChart(m.momentum[max(len(m.momentum)-30, 0):], 30)) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for i, b := range states {
		if i == 8 {
			s.WriteString(label.Render(fmt.Sprintf("  +%d more", len(states)-i)) + "\n")
			break
		}
		line := fmt.Sprintf(" m=%-7.1f (%6.1f, %6.1f)", b.Mass, b.Position.X, b.Position.Y)
		if b.Static {
			line += " fixed"
		}
		s.WriteString(Swatch(b.Color) + value.Render(line) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + statusStyle(true).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle().Render("─────────────────────\nSP:Pause N:Step R:Reset Q:Quit\n+/-:Speed T:Theme G:Record ?:Help"))
	statsView := statsStyle().Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single step while paused ║
║  R        - Reset to initial bodies  ║
║  + / -    - Double/halve steps/tick  ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// captureFrame rasterizes the canvas into a GIF frame, one block of
// pixels per braille dot in its cell's color.
func (m *Model) captureFrame() {
	const dotW, dotH = 4, 4
	cw, ch := m.canvas.PixelSize()

	pal := color.Palette{color.Black, color.White}
	index := map[string]uint8{}
	for _, row := range m.canvas.Colors {
		for _, hex := range row {
			if _, ok := index[hex]; ok || hex == "" || len(pal) == 256 {
				continue
			}
			c, err := colorful.Hex(hex)
			if err != nil {
				continue
			}
			index[hex] = uint8(len(pal))
			pal = append(pal, c)
		}
	}

	img := image.NewPaletted(image.Rect(0, 0, cw*dotW, ch*dotH), pal)
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			if !m.canvas.Lit(x, y) {
				continue
			}
			idx, ok := index[m.canvas.Colors[y/4][x/2]]
			if !ok {
				idx = 1
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, idx)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	delay := max(int(m.interval/(10*time.Millisecond)), 1)
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}
