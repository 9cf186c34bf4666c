package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/hugo/lang"
	"github.com/ardnew/hugo/log"
	"github.com/ardnew/hugo/report"
)

const prompt = "➜ "

func helpMessage() string {
	return `
Enter a declaration to add it to the session, or an expression to print its
tree:

  ➜ f 1 + x
  ➜ (a + b) * c

Commands:

  :help    Print this message
  :list    List the session's declarations
  :clear   Forget every declaration and clear the screen
  :quit    Exit

Tab / Shift-Tab cycle through completions, Esc cancels one, Up / Down walk
the history, and Ctrl+C on an empty line or Ctrl+D exits.`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx          context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // ranked completions of the current word
	wordStart    int           // byte offset of the current word
	wordEnd      int           // byte offset past the current word
	suggIdx      int           // selected completion while tab-cycling
	tabActive    bool
	preTabText   string // input before tab-cycling began
	preTabCursor int
	width        int
	profile      termenv.Profile // color profile of rendered diagnostics
	quitting     bool
}

// Run starts an interactive session. Lines submitted are added to history,
// which is loaded first.
func Run(ctx context.Context, session *Session, history *History, logger log.Logger) error {
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "history not loaded", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("declarations", len(session.Names())),
		slog.Int("history", history.Len()),
	)

	m := newModel(ctx, session, history, logger)

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, session *Session, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		profile:    lipgloss.ColorProfile(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render("Type a declaration, an expression or :help"))

	default:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refresh()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refresh()

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		m.cycle(1)

		return m, nil

	case tea.KeyShiftTab:
		m.cycle(-1)

		return m, nil

	case tea.KeyUp:
		m.walkHistory(-1)

		return m, nil

	case tea.KeyDown:
		m.walkHistory(1)

		return m, nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh()
		}

		return m, nil
	}

	var cmd tea.Cmd

	// Anything but a letter accepts the candidate being cycled.
	if msg.Type != tea.KeyRunes {
		m.tabActive = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// cycle moves the selected completion by step and writes it into the input.
// A single candidate is accepted at once.
func (m *model) cycle(step int) {
	switch len(m.matches) {
	case 0:
		return

	case 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1

		if step < 0 {
			m.suggIdx = 0
		}
	}

	n := len(m.matches)
	m.suggIdx = ((m.suggIdx+step)%n + n) % n
	m.replaceWord(m.matches[m.suggIdx].Str)
}

// replaceWord replaces the current word with s and moves the cursor past it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()
	head := input[:m.wordStart] + s

	m.input.SetValue(head + input[m.wordEnd:])
	m.input.SetCursor(utf8.RuneCountInString(head))
	m.wordEnd = len(head)
}

// cursor returns the byte offset of the input cursor, which textinput
// counts in runes.
func (m *model) cursor() int {
	runes := []rune(m.input.Value())

	return len(string(runes[:min(m.input.Position(), len(runes))]))
}

// refresh recomputes the completions of the word at the cursor.
func (m *model) refresh() {
	m.matches, m.wordStart, m.wordEnd = completions(
		m.input.Value(), m.cursor(), m.session.Names(),
	)

	if !m.tabActive {
		m.suggIdx = -1
	}
}

// walkHistory moves through the history by step. Walking past the newest
// entry clears the input.
func (m *model) walkHistory(step int) {
	i := m.historyIdx + step
	if i < 0 || i > m.history.Len() {
		return
	}

	m.historyIdx = i
	m.tabActive = false

	line, err := m.history.Entry(i)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.CursorEnd()
	m.refresh()
}

// submit executes the input line and prints it with its reply above the
// prompt.
func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	if err := m.history.Add(line); err != nil {
		m.logger.WarnContext(m.ctx, "history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	m.refresh()

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line))

	r := m.execute(line)

	switch {
	case r.quit:
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case r.clear:
		return m, tea.Sequence(tea.ClearScreen, tea.Println(r.text))

	case r.text == "":
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(r.text))
}

// reply is the response to one submitted line.
type reply struct {
	text  string
	quit  bool
	clear bool
}

// execute runs a command or evaluates line in the session.
func (m model) execute(line string) reply {
	if strings.HasPrefix(line, ":") {
		return m.command(line)
	}

	res := m.session.Eval(m.ctx, line)

	m.logger.TraceContext(m.ctx, "repl eval",
		slog.String("input", line),
		slog.Int("declared", len(res.Declared)),
		slog.Int("diagnostics", len(res.Diagnostics)),
	)

	switch {
	case len(res.Diagnostics) > 0:
		text := report.String(res.Source, res.Diagnostics, report.WithProfile(m.profile))

		return reply{text: strings.TrimSuffix(text, "\n")}

	case res.Expr != nil:
		return reply{text: resultStyle.Render(lang.Tree(res.Expr))}

	default:
		return reply{text: resultStyle.Render("declared " + strings.Join(res.Declared, ", "))}
	}
}

func (m model) command(line string) reply {
	name, _, _ := strings.Cut(line, " ")

	switch name {
	case ":q", ":quit", ":exit":
		return reply{quit: true}

	case ":h", ":help":
		return reply{text: helpMessage()}

	case ":l", ":list":
		if list := m.session.List(); list != "" {
			return reply{text: list}
		}

		return reply{text: hintStyle.Render("no declarations")}

	case ":c", ":clear":
		m.session.Clear()

		return reply{text: hintStyle.Render("session cleared"), clear: true}

	default:
		err := fmt.Errorf("%w: %s (try :help)", ErrUnknownCommand, name)

		return reply{text: errorStyle.Render(err.Error())}
	}
}
