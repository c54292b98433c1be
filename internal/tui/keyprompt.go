package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCanceled is returned when the user leaves the prompt without
// entering a key.
var ErrPromptCanceled = errors.New("API key prompt canceled")

type keyPromptModel struct {
	input    textinput.Model
	done     bool
	canceled bool
}

func newKeyPrompt() keyPromptModel {
	ti := textinput.New()
	ti.Placeholder = "Clockify API key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	return keyPromptModel{input: ti}
}

func (m keyPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m keyPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			if m.Value() == "" {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m keyPromptModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	header := titleStyle.Render("goclockify: API key")
	hint := subtitleStyle.Render("Find it under Profile settings → API in Clockify.")
	help := helpStyle.Render("Enter: submit • Esc: cancel")

	return header + "\n" + hint + "\n\n" + m.input.View() + "\n" + help + "\n"
}

func (m keyPromptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// PromptAPIKey asks for an API key on an interactive terminal.
func PromptAPIKey(in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newKeyPrompt(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running API key prompt: %w", err)
	}

	m, ok := final.(keyPromptModel)
	if !ok || m.canceled || !m.done {
		return "", ErrPromptCanceled
	}
	return m.Value(), nil
}
