package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aura/meter"
	"aura/session"
)

// TUI message types
type StateMsg struct {
	State  session.State
	Status string
}
type AudioLevelMsg struct {
	Level float64
	Peak  float64
}
type SessionTickMsg struct{ Duration float64 }
type NoVoiceWarningMsg struct{ Active bool }
type TurnEndedMsg struct{ Auto bool }
type tickMsg time.Time

var (
	tuiProgram   *tea.Program
	tuiMu        sync.Mutex
	tuiReady     = make(chan struct{})
	tuiReadyOnce sync.Once
)

var (
	statusStyles = map[session.State]lipgloss.Style{
		session.StateIdle:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		session.StateListening:  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		session.StateRecording:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		session.StateProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		session.StateSpeaking:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		session.StateError:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
	stateDots = map[session.State]string{
		session.StateIdle:       "○",
		session.StateListening:  "◎",
		session.StateRecording:  "●",
		session.StateProcessing: "◆",
		session.StateSpeaking:   "▶",
		session.StateError:      "✗",
	}

	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	barIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	meterFill  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	meterEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	meterPeak  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpBold   = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	turnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	barGlyphs  = []rune("▁▂▃▄▅▆▇█")
	meterWidth = 30
)

type tuiModel struct {
	state      session.State
	status     string
	frame      int
	duration   float64
	audioLevel float64
	peakLevel  float64
	warning    bool
	turnCount  int
	lastAuto   bool

	barCount   int
	jitterSeed int64

	width, height int
}

func NewTUIProgram(barCount int, jitterSeed int64) *tea.Program {
	m := tuiModel{
		state:      session.StateIdle,
		status:     "Ready to listen",
		barCount:   barCount,
		jitterSeed: jitterSeed,
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	tuiReadyOnce.Do(func() { close(tuiReady) })
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case StateMsg:
		m.state = msg.State
		m.status = msg.Status
		if msg.State == session.StateIdle || msg.State == session.StateError {
			m.audioLevel = 0
			m.peakLevel = 0
			m.duration = 0
			m.warning = false
		}

	case AudioLevelMsg:
		if m.state.Active() {
			// Smooth the displayed level so bars do not snap.
			m.audioLevel = m.audioLevel*0.6 + msg.Level*0.4
			m.peakLevel = msg.Peak
		}

	case SessionTickMsg:
		m.duration = msg.Duration

	case NoVoiceWarningMsg:
		m.warning = msg.Active

	case TurnEndedMsg:
		m.turnCount++
		m.lastAuto = msg.Auto
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Status line
	style, ok := statusStyles[m.state]
	if !ok {
		style = statusStyles[session.StateIdle]
	}
	line := stateDots[m.state] + " " + m.status
	if m.state.Active() {
		line += fmt.Sprintf("  %.1fs", m.duration)
	}
	b.WriteString(style.Render(line) + "\n")

	if m.warning {
		b.WriteString(warnStyle.Render("  ⚠ no voice detected") + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Activity bars: jitter reseeded per frame so the row shimmers while
	// staying deterministic for a given (level, frame) pair.
	b.WriteString(m.renderBars() + "\n")

	// Level meter
	b.WriteString(m.renderMeter() + "\n\n")

	if m.turnCount > 0 {
		how := "key"
		if m.lastAuto {
			how = "silence"
		}
		b.WriteString(turnStyle.Render(fmt.Sprintf("turns completed: %d (last ended by %s)", m.turnCount, how)) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(helpBold.Render("Ctrl+Shift+Space") + helpStyle.Render(" hold to talk, tap to toggle") + "\n")
	b.WriteString(helpStyle.Render("aura "+version) + "\n")

	return b.String()
}

func (m tuiModel) renderBars() string {
	bars := meter.Bars(m.audioLevel, m.barCount, m.jitterSeed+int64(m.frame))
	span := meter.MaxBarDelta * 1.5

	var b strings.Builder
	style := barStyle
	if !m.state.Active() {
		style = barIdle
	}
	for _, bar := range bars {
		idx := int((bar.Height - meter.MinBarHeight) / span * float64(len(barGlyphs)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(barGlyphs) {
			idx = len(barGlyphs) - 1
		}
		b.WriteString(style.Render(string(barGlyphs[idx])))
	}
	return b.String()
}

func (m tuiModel) renderMeter() string {
	f := meter.Level(m.audioLevel, m.peakLevel)
	filled := int(f.FillRatio * float64(meterWidth))
	peakPos := int(f.PeakMarker * float64(meterWidth-1))

	var b strings.Builder
	for i := 0; i < meterWidth; i++ {
		switch {
		case i == peakPos && m.peakLevel > 0:
			b.WriteString(meterPeak.Render("┃"))
		case i < filled:
			b.WriteString(meterFill.Render("█"))
		default:
			b.WriteString(meterEmpty.Render("░"))
		}
	}
	return b.String()
}

// tuiSink adapts the Bubble Tea program to the EventSink boundary.
type tuiSink struct{}

func (tuiSink) StateChanged(s session.State, status string) {
	tuiSend(StateMsg{State: s, Status: status})
}

func (tuiSink) AudioLevel(level, peak float64) {
	tuiSend(AudioLevelMsg{Level: level, Peak: peak})
}

func (tuiSink) SessionTick(duration float64) {
	tuiSend(SessionTickMsg{Duration: duration})
}

func (tuiSink) NoVoiceWarning(active bool) {
	tuiSend(NoVoiceWarningMsg{Active: active})
}

func (tuiSink) TurnEnded(auto bool) {
	tuiSend(TurnEndedMsg{Auto: auto})
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}
