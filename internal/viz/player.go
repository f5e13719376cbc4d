package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/eyespot/internal/eyespot"
)

const (
	mapWidth   = 64
	graphWidth = 36
	frameRate  = 8
)

var (
	mapStyle   = lipgloss.NewStyle().Padding(1, 2)
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Player steps through the evaluation times of a finished solution.
type Player struct {
	sol      *eyespot.Solution
	title    string
	maps     []eyespot.PigmentMap
	totals   [eyespot.NumSpecies][]float64
	metrics  []string
	playHead int
	species  int
	running  bool
	theme    Theme
	gifPath  string
	status   string
	showHelp bool
}

// NewPlayer decodes every frame up front so scrubbing is free.
func NewPlayer(sol *eyespot.Solution, title, gifPath string) (Player, error) {
	maps := make([]eyespot.PigmentMap, sol.Len())
	for i := range maps {
		f, err := sol.Fields(i)
		if err != nil {
			return Player{}, err
		}
		maps[i] = f.Classify()
	}
	totals, err := Totals(sol)
	if err != nil {
		return Player{}, err
	}

	keys := make([]string, 0, len(sol.Metrics))
	for k := range sol.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Player{
		sol:     sol,
		title:   title,
		maps:    maps,
		totals:  totals,
		metrics: keys,
		species: 3,
		running: true,
		theme:   CurrentTheme,
		gifPath: gifPath,
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p Player) Init() tea.Cmd { return tick() }

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ":
			p.running = !p.running
		case "[":
			p.running = false
			p.seek(p.playHead - 1)
		case "]":
			p.running = false
			p.seek(p.playHead + 1)
		case "home":
			p.seek(0)
		case "end":
			p.seek(len(p.maps) - 1)
		case "s":
			p.species = (p.species + 1) % eyespot.NumSpecies
		case "t":
			p.theme = NextTheme(p.theme)
		case "g":
			p.status = p.saveGIF()
		case "?":
			p.showHelp = !p.showHelp
		}
	case TickMsg:
		if p.running && len(p.maps) > 0 {
			p.playHead = (p.playHead + 1) % len(p.maps)
		}
		return p, tick()
	}
	return p, nil
}

func (p *Player) seek(i int) {
	p.playHead = max(0, min(i, len(p.maps)-1))
}

func (p Player) saveGIF() string {
	if p.gifPath == "" {
		return "no GIF path configured"
	}
	if err := SaveGIF(p.gifPath, p.sol, GIFOptions{Theme: p.theme, Label: true}); err != nil {
		return "GIF failed: " + err.Error()
	}
	return "saved " + p.gifPath
}

// View renders the map on the left and time, totals and metrics on the right.
func (p Player) View() string {
	if len(p.maps) == 0 {
		return "empty solution\n"
	}
	m := p.maps[p.playHead]
	left := mapStyle.Render(RenderPigment(m, p.theme, mapWidth) + "\n" + Legend(m, p.theme))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(p.title)) + "\n")
	if p.running {
		s.WriteString(StatusRunning.Render("PLAYING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	t := p.sol.Times[p.playHead]
	s.WriteString(MetricLine("time", t) + "\n")
	s.WriteString(MetricLabel.Render("frame") + MetricValue.Render(fmt.Sprintf("%d/%d", p.playHead+1, len(p.maps))) + "\n")
	progress := float64(p.playHead) / float64(max(len(p.maps)-1, 1))
	s.WriteString(ProgressBar(progress, graphWidth) + "\n")

	name := eyespot.SpeciesNames[p.species]
	series := p.totals[p.species][:p.playHead+1]
	if len(series) > 1 {
		s.WriteString(graphStyle.Render(PlotSeries("total "+name, 5, graphWidth, series)) + "\n")
	} else {
		s.WriteString(MetricLine("total "+name, series[0]) + "\n")
	}
	s.WriteString(SparklineChart(p.totals[p.species], graphWidth) + "\n")

	if len(p.metrics) > 0 {
		s.WriteString("\n" + Separator(graphWidth) + "\n")
		for _, k := range p.metrics {
			s.WriteString(MetricLine(k, p.sol.Metrics[k]) + "\n")
		}
	}
	if p.status != "" {
		s.WriteString("\n" + Subtle.Render(p.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Play [ ]:Step S:Species\nT:Theme(" + p.theme.Name + ") G:GIF ?:Help Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, left, statsStyle.Render(s.String()))
	if p.showHelp {
		return PanelStyle.Render(strings.Join([]string{
			TitleStyle.Render("KEYBOARD SHORTCUTS"),
			"Space     Play/Pause",
			"[ / ]     Step back/forward",
			"Home/End  First/last frame",
			"S         Cycle plotted species",
			"T         Cycle themes",
			"G         Save GIF",
			"?         Toggle this help",
			"Q         Quit",
		}, "\n")) + "\n\n" + main
	}
	return main
}

// RunPlayer blocks until the user quits the player.
func RunPlayer(sol *eyespot.Solution, title, gifPath string) error {
	p, err := NewPlayer(sol, title, gifPath)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
