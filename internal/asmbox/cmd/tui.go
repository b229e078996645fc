package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"asmbox/internal/asmbox/styles"
	"asmbox/internal/assembler"
	"asmbox/internal/listing"
)

// inputHeight is the editor pane height in rows; the rest of the window
// goes to the result viewport.
const inputHeight = 8

type assembledMsg struct {
	rec *listing.Record
	err error
}

type model struct {
	input      textarea.Model
	result     viewport.Model
	spinner    spinner.Model
	svc        *assembler.Service
	assembling bool
	width      int
	height     int
}

// assembleCmd runs one assemble call off the UI loop so the spinner keeps
// moving while the external toolchain works.
func assembleCmd(svc *assembler.Service, code string) tea.Cmd {
	return func() tea.Msg {
		rec, err := svc.Assemble(context.Background(), code)
		return assembledMsg{rec: rec, err: err}
	}
}

func newModel(svc *assembler.Service, initial string) model {
	ta := textarea.New()
	ta.SetValue(initial)
	ta.SetWidth(80)
	ta.SetHeight(inputHeight)
	ta.Focus()

	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24 - inputHeight - 2)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	m := model{
		input:   ta,
		result:  vp,
		spinner: s,
		svc:     svc,
		width:   80,
		height:  24,
	}
	m.result.SetContent("Press ctrl+r to assemble.")
	return m
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case assembledMsg:
		m.assembling = false
		m.result.SetContent(m.renderResult(msg.rec, msg.err))
		m.result.GotoTop()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.assembling {
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width)
		m.result.SetWidth(msg.Width)
		m.result.SetHeight(msg.Height - inputHeight - 2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			if m.assembling {
				return m, nil
			}
			m.assembling = true
			return m, tea.Batch(assembleCmd(m.svc, m.input.Value()), m.spinner.Tick)
		case "ctrl+t":
			// Toggle between the two recognized architectures.
			next := "x64"
			if m.svc.Mode() == assembler.ModeX64 {
				next = "x86"
			}
			_ = m.svc.SetMode(next)
			return m, nil
		case "pgup", "pgdown":
			m.result, cmd = m.result.Update(msg)
			return m, cmd
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true).
		Render(" asmbox ")

	body := m.result.View()
	if m.assembling {
		body = fmt.Sprintf("%s Assembling...", m.spinner.View())
	}

	menu := fmt.Sprintf(" ctrl+r: assemble • ctrl+t: arch (%s) • pgup/pgdown: scroll • ctrl+c: quit ", m.svc.Mode())
	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return title + "\n" + m.input.View() + "\n" + body + "\n" + menuStyle.Render(menu)
}

// renderResult turns a service response into the markdown-rendered result
// pane. Errors go through the same renderer as results.
func (m model) renderResult(rec *listing.Record, err error) string {
	width := m.width
	if width == 0 {
		width = 80
	}

	var markdown string
	if err != nil {
		markdown = fmt.Sprintf("# asmbox · %s\n\n**%s**\n", m.svc.Mode(), presentableError(err))
	} else {
		markdown = resultMarkdown(rec, m.svc.Mode(), nil)
	}

	rendered, renderErr := styles.GetMarkdownRenderer(width - 2).Render(markdown)
	if renderErr != nil {
		return markdown
	}
	return strings.TrimSuffix(rendered, "\n")
}
