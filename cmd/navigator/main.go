package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/natevvv/terrain-routing/internal/config"
	"github.com/natevvv/terrain-routing/internal/logging"
	"github.com/natevvv/terrain-routing/internal/menu"
	"github.com/natevvv/terrain-routing/pkg/export"
	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/routing"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	infoStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginLeft(2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

type keyMap struct {
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdown", "page down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Up, k.Down, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Quit},
		{k.Up, k.Down, k.PageUp, k.PageDown},
	}
}

// files written after every found route; empty paths are skipped
type exportPaths struct {
	geoJSON string
	osm     string
}

type routeMsg struct {
	option menu.Option
	route  routing.Route
	err    error
}

type model struct {
	ctx        context.Context
	router     *routing.Router
	search     config.SearchConfig
	projection geo.Projection
	exports    exportPaths

	input     textinput.Model
	output    viewport.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	ready     bool
	searching bool
	width     int
	message   string
	isError   bool
}

func initialModel(ctx context.Context, router *routing.Router, search config.SearchConfig, projection geo.Projection, exports exportPaths) model {
	ti := textinput.New()
	ti.Placeholder = "1-8"
	ti.Prompt = "Select an option: "
	ti.CharLimit = 8
	ti.Width = 20
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		ctx:        ctx,
		router:     router,
		search:     search,
		projection: projection,
		exports:    exports,
		input:      ti,
		spinner:    sp,
		help:       help.New(),
		keys:       keys,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		height := msg.Height - lipgloss.Height(m.headerView()) - lipgloss.Height(m.footerView())
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.output = viewport.New(msg.Width-2, height)
			m.ready = true
		} else {
			m.output.Width = msg.Width - 2
			m.output.Height = height
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Enter):
			if m.searching {
				return m, nil
			}
			option, err := menu.Parse(m.input.Value())
			m.input.Reset()
			if err != nil {
				m.message = err.Error()
				m.isError = true
				return m, nil
			}
			if option.Exit() {
				return m, tea.Quit
			}
			m.searching = true
			m.message = fmt.Sprintf("Searching with %s...", option.Label)
			m.isError = false
			return m, tea.Batch(m.spinner.Tick, m.compute(option))
		}

	case spinner.TickMsg:
		if m.searching {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case routeMsg:
		m.searching = false
		m.showRoute(msg)
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.output, cmd = m.output.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m model) compute(option menu.Option) tea.Cmd {
	return func() tea.Msg {
		route, err := m.router.ComputeRoute(m.ctx, routing.Request{
			Origin:      m.search.Initial.Coord(),
			Destination: m.search.Goal.Coord(),
			Strategy:    option.Strategy,
		})
		return routeMsg{option: option, route: route, err: err}
	}
}

func (m *model) showRoute(msg routeMsg) {
	if msg.err != nil {
		m.message = fmt.Sprintf("Search failed: %v", msg.err)
		m.isError = true
		return
	}

	var s strings.Builder
	route := msg.route
	fmt.Fprintf(&s, "%s (%s)\n", msg.option.Label, route.Elapsed)
	if !route.Exists {
		s.WriteString("No solution\n")
		fmt.Fprintf(&s, "%d nodes expanded, %s\n", route.Stats.Expansions, routing.Diagnose(route.Stats))
		m.message = "No solution"
		m.isError = true
	} else {
		for _, step := range route.Steps {
			s.WriteString(step.String())
			s.WriteString("\n")
		}
		fmt.Fprintf(&s, "\nlength %.1f, max slope %.1f, %d steps, %d nodes expanded\n",
			route.Length, route.MaxSlope, len(route.Steps)-1, route.Stats.Expansions)
		m.message = fmt.Sprintf("Solution found with %s", msg.option.Label)
		m.isError = false
		if written, err := writeExports(route, m.projection, m.exports); err != nil {
			m.message = fmt.Sprintf("%s, export failed: %v", m.message, err)
			m.isError = true
		} else if len(written) > 0 {
			m.message = fmt.Sprintf("%s, wrote %s", m.message, strings.Join(written, ", "))
		}
	}
	m.output.SetContent(s.String())
	m.output.GotoTop()
}

func writeExports(route routing.Route, projection geo.Projection, paths exportPaths) ([]string, error) {
	var written []string
	if paths.geoJSON != "" {
		data, err := json.MarshalIndent(export.GeoJSON(route, projection), "", "  ")
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(paths.geoJSON, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, paths.geoJSON)
	}
	if paths.osm != "" {
		o, err := export.OSM(route, projection)
		if err != nil {
			return written, err
		}
		f, err := os.Create(paths.osm)
		if err != nil {
			return written, err
		}
		defer f.Close()
		if err := export.WriteOSM(f, o); err != nil {
			return written, err
		}
		written = append(written, paths.osm)
	}
	return written, nil
}

func (m model) headerView() string {
	var info strings.Builder
	fmt.Fprintf(&info, "Initial state: %v\n", m.search.Initial.Coord())
	fmt.Fprintf(&info, "Goal state:    %v\n", m.search.Goal.Coord())
	fmt.Fprintf(&info, "Max slope:     %v\n", m.search.MaxSlope)
	fmt.Fprintf(&info, "Max depth:     %v\n\n", m.search.MaxDepth)
	for _, option := range menu.Options() {
		info.WriteString(option.String())
		info.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Terrain navigator"),
		infoStyle.Render(strings.TrimRight(info.String(), "\n")),
		contentStyle.Render(m.input.View()),
		contentStyle.Render(m.statusView()),
	)
}

func (m model) statusView() string {
	switch {
	case m.searching:
		return m.spinner.View() + " " + m.message
	case m.message == "":
		return ""
	case m.isError:
		return errorStyle.Render(m.message)
	}
	return successStyle.Render(m.message)
}

func (m model) footerView() string {
	return helpStyle.Render(m.help.View(m.keys))
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		contentStyle.Render(m.output.View()),
		m.footerView(),
	)
}

// newRouter binds the terrain to the configured search settings; every
// search logs its outcome through log.
func newRouter(t terrain.Terrain, search config.SearchConfig, log logging.Logger) *routing.Router {
	settings := routing.Settings{Factor: search.Factor, MaxSlope: search.MaxSlope, MaxDepth: search.MaxDepth}
	return routing.NewRouter(t, settings, routing.WithLogger(log))
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file (defaults when empty)")
	geoJSONFile := flag.String("geojson", "", "write every found route as GeoJSON to this file")
	osmFile := flag.String("osm", "", "write every found route as OSM XML to this file (UTM terrain only)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// stdout belongs to the terminal UI
	log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})

	projection, err := cfg.Terrain.Projection()
	if err != nil {
		log.Error(ctx, "invalid projection", logging.Err(err))
		os.Exit(1)
	}

	fmt.Println("Loading terrain...")
	m, err := cfg.Terrain.Open(ctx, log)
	if err != nil {
		log.Error(ctx, "failed to load terrain", logging.Err(err))
		os.Exit(1)
	}

	router := newRouter(m, cfg.Search, log)

	p := tea.NewProgram(initialModel(ctx, router, cfg.Search, projection, exportPaths{geoJSON: *geoJSONFile, osm: *osmFile}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error(ctx, "error running program", logging.Err(err))
		os.Exit(1)
	}
}
