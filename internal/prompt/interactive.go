package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Interactive asks questions on a terminal.
type Interactive struct {
	In  io.Reader
	Out io.Writer
}

var _ Prompter = (*Interactive)(nil)

// NewInteractive returns a Prompter bound to the process terminal.
func NewInteractive() *Interactive {
	return &Interactive{In: os.Stdin, Out: os.Stderr}
}

func (p *Interactive) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}

// Input shows a text field and re-prompts until the value validates.
func (p *Interactive) Input(ctx context.Context, req InputRequest) (string, bool, error) {
	final, err := p.run(ctx, newInputModel(req))
	if err != nil {
		return "", false, err
	}
	m := final.(inputModel)
	if m.declined {
		return "", false, nil
	}
	return m.value(), true, nil
}

// Choose shows a list of options navigated with the arrow keys.
func (p *Interactive) Choose(ctx context.Context, req ChoiceRequest) (string, bool, error) {
	final, err := p.run(ctx, newChoiceModel(req))
	if err != nil {
		return "", false, err
	}
	m := final.(choiceModel)
	if m.declined {
		return "", false, nil
	}
	return m.req.Options[m.cursor], true, nil
}

type inputModel struct {
	req      InputRequest
	input    textinput.Model
	errMsg   string
	done     bool
	declined bool
}

func newInputModel(req InputRequest) inputModel {
	ti := textinput.New()
	ti.Placeholder = req.Placeholder
	ti.Focus()
	return inputModel{req: req, input: ti}
}

func (m inputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if m.req.Validate != nil {
				if errMsg := m.req.Validate(m.value()); errMsg != "" {
					m.errMsg = errMsg
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.declined = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.errMsg = ""
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.declined {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.req.Prompt))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("enter to confirm, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

type choiceModel struct {
	req      ChoiceRequest
	cursor   int
	done     bool
	declined bool
}

func newChoiceModel(req ChoiceRequest) choiceModel {
	return choiceModel{req: req}
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.req.Options)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.req.Options) == 0 {
			m.declined = true
		} else {
			m.done = true
		}
		return m, tea.Quit
	case "esc", "ctrl+c", "q":
		m.declined = true
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	if m.done || m.declined {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.req.Message))
	b.WriteString("\n")
	for i, opt := range m.req.Options {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteString("\n")
	}
	return b.String()
}
