package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
)

var presetInfo = map[string]string{
	"orbit":   "three orbits, fixed anchor",
	"classic": "four free bodies",
	"swarm":   "random bodies, fixed anchor",
	"binary":  "binary pair with a planet",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable config field in the tuning screen.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"g", func(c *config.Config) float64 { return c.G }, func(c *config.Config, v float64) { c.G = v }},
	{"dt", func(c *config.Config) float64 { return c.Dt }, func(c *config.Config, v float64) { c.Dt = v }},
	{"drift", func(c *config.Config) float64 { return c.Drift }, func(c *config.Config, v float64) { c.Drift = v }},
	{"restitution", func(c *config.Config) float64 { return c.Restitution }, func(c *config.Config, v float64) { c.Restitution = v }},
	{"trail", func(c *config.Config) float64 { return float64(c.TrailLength) }, func(c *config.Config, v float64) { c.TrailLength = int(v) }},
	{"generate", func(c *config.Config) float64 { return float64(c.Generate.Count) }, func(c *config.Config, v float64) { c.Generate.Count = int(v) }},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = int64(v) }},
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// picker is the preset menu shown by RunInteractive: choose a preset,
// tune a few fields, then watch it live.
type picker struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	width, height int
	liveModel     Model
}

func NewInteractiveApp() *picker {
	return &picker{
		state:   stateMenu,
		presets: config.ListPresets(),
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			m.liveModel.resize(msg.Width, msg.Height)
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m picker) handleKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(m.cfg), 'g', -1, 64)
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)*0.9)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)*1.1)
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *picker) start() tea.Cmd {
	exp, err := experiment.New(m.cfg)
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel = NewModel(exp)
	if m.width > 0 {
		m.liveModel.resize(m.width, m.height)
	}
	m.state = stateSim
	return m.liveModel.Init()
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func header(title, sub string) string {
	return "\n\n    " + titleStyle.Render(title) + "\n    " + subStyle.Render(sub) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n"
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("ORBITSIM", "n-body gravity"))
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", name)), infoStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), subStyle.Render(desc)))
		}
	}
	b.WriteString(keyHints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	b.WriteString(header(strings.ToUpper(m.cfg.Name), presetInfo[m.cfg.Name]))
	for i, p := range params {
		valStr := fmt.Sprintf("%10.4g", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", p.name)), infoStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", p.name)), subStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive starts the preset picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}

// RunLive shows exp directly, without the picker.
func RunLive(exp *experiment.Experiment) error {
	_, err := tea.NewProgram(NewModel(exp), tea.WithAltScreen()).Run()
	return err
}
