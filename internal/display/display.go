// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar showing the
// assistant's conversation state and an input prompt at the bottom of
// the terminal. All application output is printed above the rendered
// area via Program.Println, so concurrent writes never garble the
// display. The UI doubles as the assistant's observer: lifecycle
// notifications become state-bar updates.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novassist/nova/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	stateWaitingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#71717a"))

	stateListeningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bbf7d0"))

	stateProcessingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fde68a"))

	stateSpeakingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bae6fd"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Chat — soft sky blue for assistant speech.
	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// Primary text — light zinc.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent — soft coral for errors.
	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// Compile-time interface check.
var _ domain.Observer = (*UI)(nil)

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call the print helpers and read from [UI.InputChan] at any time
// after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe. If the program
// hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintChat prints a spoken assistant line.
func (u *UI) PrintChat(text string) {
	u.Println(chatStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentStyle.Render("  " + text))
}

// PrintVoice prints a voice-recognized input line.
func (u *UI) PrintVoice(text string) {
	u.Println(secondaryStyle.Render("[voice] ") + primaryStyle.Render(text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("nova") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// ── Observer hooks ───────────────────────────────────────────────
// Each hook just posts a message to the event loop; rendering happens
// in Update/View.

func (u *UI) setState(s domain.AssistantState) {
	if u.program != nil && !u.done.Load() {
		u.program.Send(stateMsg(s))
	}
}

func (u *UI) OnWakeDetected() {
	if u.program != nil && !u.done.Load() {
		u.program.Send(wakeMsg{})
	}
}

func (u *UI) OnListeningStarted() { u.setState(domain.StateActiveListening) }
func (u *UI) OnListeningStopped() { u.setState(domain.StateWaitingForWake) }

func (u *UI) OnProcessingStarted() { u.setState(domain.StateProcessing) }
func (u *UI) OnProcessingStopped() { u.setState(domain.StateWaitingForWake) }

func (u *UI) OnSpeakingStarted(text string) {
	u.setState(domain.StateSpeaking)
	u.PrintChat(text)
}

func (u *UI) OnSpeakingStopped() { u.setState(domain.StateWaitingForWake) }

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Plain-text prompt: lipgloss-styled prompts add invisible ANSI
	// bytes that break the textinput width math for long input.
	ti.Prompt = "nova> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		input:   ti,
		state:   domain.StateWaitingForWake,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn:  u.PrintUserInput,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input   textinput.Model
	state   domain.AssistantState
	awake   bool // wake word heard, command pending
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	width   int
}

// Messages.
type stateMsg domain.AssistantState
type wakeMsg struct{}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo via a Cmd so it runs outside Update and can't
				// deadlock on the message queue.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		const promptLen = 6 // "nova> "
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case stateMsg:
		m.state = domain.AssistantState(msg)
		if m.state != domain.StateActiveListening {
			m.awake = false
		}
		return m, tea.SetWindowTitle("Nova — " + m.state.String())

	case wakeMsg:
		m.awake = true
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.renderBar())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	var status string
	switch m.state {
	case domain.StateActiveListening:
		status = stateListeningStyle.Render("● listening")
	case domain.StateProcessing:
		status = stateProcessingStyle.Render("● processing")
	case domain.StateSpeaking:
		status = stateSpeakingStyle.Render("● speaking")
	default:
		status = stateWaitingStyle.Render("○ waiting for wake word")
	}

	content := " " + labelStyle.Render("Nova") + "  " + status + " "
	if m.awake {
		content += stateListeningStyle.Render(" (awake)")
	}

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}
