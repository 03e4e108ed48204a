// Package tui provides a terminal user interface for hero2saber
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beatforge/hero2saber/pkg/config"
	"github.com/beatforge/hero2saber/pkg/converter"
)

// Saber-inspired color scheme
var (
	saberRed  = lipgloss.Color("#FF2D55")
	saberBlue = lipgloss.Color("#2D8CFF")
	silver    = lipgloss.Color("#C0C0C0")
	darkGray  = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(saberBlue).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silver).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(saberBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(saberRed).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(saberRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(saberBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(saberBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Batch       bool
	Exit        bool
}

var menuItems = []MenuItem{
	{Title: "Convert song package", Description: "Convert one Clone Hero .zip into a Beat Saber map"},
	{Title: "Batch convert folder", Description: "Convert every .zip in a folder", Batch: true},
	{Title: "Exit", Description: "Exit the application", Exit: true},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	conv         *converter.Converter
	batch        bool
	selectedPath string
	result       *converter.Result
	batchItems   []converter.BatchItem
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	result     *converter.Result
	batchItems []converter.BatchItem
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New(cfg *config.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".zip"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(saberBlue)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		conv:       converter.New(cfg),
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages while active
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedPath = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.result = msg.result
		m.batchItems = msg.batchItems
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		item := menuItems[m.menuIndex]
		if item.Exit {
			return m, tea.Quit
		}
		m.batch = item.Batch
		m.state = StateFilePicker

		if m.batch {
			m.filePicker.DirAllowed = true
			m.filePicker.FileAllowed = false
			m.filePicker.AllowedTypes = nil
		} else {
			m.filePicker.DirAllowed = false
			m.filePicker.FileAllowed = true
			m.filePicker.AllowedTypes = []string{".zip"}
		}

		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedPath = ""
		m.result = nil
		m.batchItems = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	batch := m.batch
	path := m.selectedPath
	conv := m.conv
	return func() tea.Msg {
		if batch {
			items, err := conv.ConvertBatch(path)
			return conversionDoneMsg{batchItems: items, err: err}
		}
		result, err := conv.ConvertZip(path)
		return conversionDoneMsg{result: result, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(saberRed).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	what := "SONG PACKAGE"
	if m.batch {
		what = "FOLDER"
	}
	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s ", what)))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), filepath.Base(m.selectedPath)))
	s.WriteString(statusStyle.Render("  Clone Hero → Beat Saber"))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	switch {
	case m.err != nil:
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))

	case m.batchItems != nil:
		s.WriteString(titleStyle.Render(" BATCH RESULT "))
		s.WriteString("\n\n")
		var ok, failed int
		for _, item := range m.batchItems {
			if item.Err != nil {
				failed++
				s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %s", filepath.Base(item.ZipPath), item.Err)))
				s.WriteString("\n")
			} else {
				ok++
				s.WriteString(fmt.Sprintf("✓ %s (%d tiers)\n", filepath.Base(item.ZipPath), len(item.Result.Tiers)))
			}
		}
		s.WriteString("\n")
		s.WriteString(successStyle.Render(fmt.Sprintf("%d converted, %d failed", ok, failed)))

	default:
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Song:   %s - %s\n", m.result.Artist, m.result.SongName))
		s.WriteString(fmt.Sprintf("BPM:    %.2f\n", m.result.BPM))
		s.WriteString(fmt.Sprintf("Tiers:  %d\n", len(m.result.Tiers)))
		s.WriteString(fmt.Sprintf("Notes:  %d\n", m.result.NoteCount))
		s.WriteString(fmt.Sprintf("Output: %s", m.result.OutputDir))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   _   _ _____ ____   ___ ____  ____    _    ____  _____ ____
  | | | | ____|  _ \ / _ \___ \/ ___|  / \  | __ )| ____|  _ \
  | |_| |  _| | |_) | | | |__) \___ \ / _ \ |  _ \|  _| | |_) |
  |  _  | |___|  _ <| |_| / __/ ___) / ___ \| |_) | |___|  _ <
  |_| |_|_____|_| \_\\___/_____|____/_/   \_\____/|_____|_| \_\
`
	return lipgloss.NewStyle().Foreground(saberRed).Render(logo)
}

// Run starts the TUI application
func Run(cfg *config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
