package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves a prompt with Esc or Ctrl+C.
var ErrCancelled = errors.New("cancelled")

// PromptSecret asks for a value without echoing it (passwords, API keys).
func PromptSecret(title, hint string) (string, error) {
	return promptInput(title, hint, textinput.EchoPassword)
}

// PromptLine asks for a single line of text.
func PromptLine(title, hint string) (string, error) {
	v, err := promptInput(title, hint, textinput.EchoNormal)
	return strings.TrimSpace(v), err
}

func promptInput(title, hint string, echo textinput.EchoMode) (string, error) {
	ti := textinput.New()
	ti.Placeholder = hint
	ti.Focus()
	ti.EchoMode = echo
	ti.CharLimit = 256
	ti.Width = 50

	final, err := tea.NewProgram(inputModel{title: title, input: ti}).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	m := final.(inputModel)
	if m.quit {
		return "", ErrCancelled
	}
	return m.value, nil
}

type inputModel struct {
	title string
	input textinput.Model
	value string
	quit  bool
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return "\n" + StyleSelectTitle.Render(m.title) + "\n\n" +
		m.input.View() + "\n\n" +
		StyleSelectDim.Render("enter confirm • esc cancel") + "\n"
}

// PromptContext opens a multi-line editor for a project description.
func PromptContext(title string) (string, error) {
	ta := textarea.New()
	ta.Placeholder = "Describe the product, its users and the problem it solves..."
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.Focus()

	final, err := tea.NewProgram(contextModel{title: title, area: ta}).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	m := final.(contextModel)
	if m.quit {
		return "", ErrCancelled
	}
	return strings.TrimSpace(m.value), nil
}

type contextModel struct {
	title string
	area  textarea.Model
	value string
	quit  bool
}

func (m contextModel) Init() tea.Cmd { return textarea.Blink }

func (m contextModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlD:
			m.value = m.area.Value()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m contextModel) View() string {
	return "\n" + StyleSelectTitle.Render(m.title) + "\n\n" +
		m.area.View() + "\n\n" +
		StyleSelectDim.Render("ctrl+d generate • esc cancel") + "\n"
}

// Option is one choice in Select.
type Option struct {
	ID          string
	Label       string
	Description string
}

// Select shows a cursor list and returns the chosen option's ID.
func Select(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to select")
	}
	final, err := tea.NewProgram(selectModel{title: title, options: options}).Run()
	if err != nil {
		return "", fmt.Errorf("run selection: %w", err)
	}
	m := final.(selectModel)
	if m.quit {
		return "", ErrCancelled
	}
	return m.selectedID, nil
}

type selectModel struct {
	title      string
	options    []Option
	cursor     int
	selectedID string
	quit       bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.selectedID = m.options[m.cursor].ID
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n" + StyleSelectTitle.Render(m.title) + "\n\n")
	for i, opt := range m.options {
		cursor, style := "  ", StyleSelectNormal
		if m.cursor == i {
			cursor, style = "▶ ", StyleSelectActive
		}
		sb.WriteString(cursor + style.Render(fmt.Sprintf("%-24s", opt.Label)))
		if opt.Description != "" {
			sb.WriteString(StyleSelectDim.Render(" " + opt.Description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + StyleSelectDim.Render("↑/↓ navigate • enter select • esc cancel") + "\n")
	return sb.String()
}
