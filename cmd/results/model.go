package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	enginev1 "github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

// Application states.
const (
	StateFolderInput = iota
	StateLogSelect
	StateDataDisplay
)

// LogReader loads the header and rows of an exported log file.
type LogReader func(path string) ([]string, []types.LogRow, error)

// Model is the main Bubble Tea model for the results browser.
type Model struct {
	state       int
	folderInput textinput.Model
	logList     list.Model
	dataTable   table.Model
	reader      LogReader
	folder      string
	logs        []types.LogType
	current     types.LogType
	rowCount    int
	err         error
	width       int
	height      int
}

// NewModel creates a new Model. A non-empty folder is loaded right away.
func NewModel(folder string, reader LogReader) Model {
	if reader == nil {
		reader = enginev1.ReadExportedLog
	}

	return Model{
		state:       StateFolderInput,
		folderInput: NewFolderInput(folder),
		logList:     NewLogList(nil),
		dataTable:   NewDataTable(),
		reader:      reader,
		folder:      folder,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.folder != "" {
		return findLogs(m.folder)
	}

	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateFolderInput {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logList.SetSize(msg.Width, msg.Height-4)
		m.dataTable.SetWidth(msg.Width)
		m.dataTable.SetHeight(msg.Height - 6)
		return m, nil

	case LogsFoundMsg:
		m.err = nil
		m.folder = msg.Folder
		m.logs = msg.Logs
		m.logList = NewLogList(msg.Logs)
		if m.width > 0 {
			m.logList.SetSize(m.width, m.height-4)
		}
		m.folderInput.Blur()
		m.state = StateLogSelect
		return m, nil

	case LogLoadedMsg:
		m.err = nil
		m.current = msg.Log
		m.rowCount = len(msg.Rows)
		m.dataTable = UpdateTable(m.dataTable, msg.Header, msg.Rows)
		m.state = StateDataDisplay
		return m, nil

	case LoadErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateFolderInput:
		return m.updateFolderInput(msg)
	case StateLogSelect:
		return m.updateLogSelect(msg)
	case StateDataDisplay:
		return m.updateDataDisplay(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateLogSelect:
		m.err = nil
		m.state = StateFolderInput
		m.folderInput.Focus()
		return m, textinput.Blink
	case StateDataDisplay:
		m.err = nil
		m.state = StateLogSelect
	}

	return m, nil
}

func (m Model) updateFolderInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		folder := strings.TrimSpace(m.folderInput.Value())
		if folder != "" {
			return m, findLogs(folder)
		}
	}

	var cmd tea.Cmd
	m.folderInput, cmd = m.folderInput.Update(msg)
	return m, cmd
}

func (m Model) updateLogSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.logList.SelectedItem().(listItem); ok {
			return m, loadLog(m.reader, m.folder, item.log)
		}
	}

	var cmd tea.Cmd
	m.logList, cmd = m.logList.Update(msg)
	return m, cmd
}

func (m Model) updateDataDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.dataTable, cmd = m.dataTable.Update(msg)
	return m, cmd
}

// findLogs returns a command that lists the exported logs of folder.
func findLogs(folder string) tea.Cmd {
	return func() tea.Msg {
		info, err := os.Stat(folder)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		if !info.IsDir() {
			return LoadErrorMsg{Err: fmt.Errorf("%s is not a directory", folder)}
		}

		var logs []types.LogType

		for _, log := range types.AllLogTypes {
			if _, ok := enginev1.ExportedLogPath(folder, log); ok {
				logs = append(logs, log)
			}
		}

		if len(logs) == 0 {
			return LoadErrorMsg{Err: fmt.Errorf("no logs found in %s", folder)}
		}

		return LogsFoundMsg{Folder: folder, Logs: logs}
	}
}

// loadLog returns a command that reads one log of folder.
func loadLog(reader LogReader, folder string, log types.LogType) tea.Cmd {
	return func() tea.Msg {
		path, ok := enginev1.ExportedLogPath(folder, log)
		if !ok {
			return LoadErrorMsg{Err: fmt.Errorf("%s not found in %s", log.FileName(), folder)}
		}

		header, rows, err := reader(path)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		return LogLoadedMsg{Log: log, Header: header, Rows: rows}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateFolderInput:
		s.WriteString(TitleStyle.Render("Argo FX Simulator - Results"))
		s.WriteString("\n\n")
		s.WriteString("Enter the folder of a backtest session:\n\n")
		s.WriteString(m.folderInput.View())
		s.WriteString("\n\n")
		m.writeError(&s)
		s.WriteString(HelpStyle.Render("Press Enter to open, ctrl+c to quit"))

	case StateLogSelect:
		s.WriteString(TitleStyle.Render(m.folder))
		s.WriteString("\n\n")
		s.WriteString(m.logList.View())
		s.WriteString("\n")
		m.writeError(&s)
		s.WriteString(HelpStyle.Render("Press Enter to select, Esc to go back, q to quit"))

	case StateDataDisplay:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("%s (%d rows)", m.current.FileName(), m.rowCount)))
		s.WriteString("\n\n")

		if m.rowCount == 0 {
			s.WriteString("The log is empty.\n")
		} else {
			s.WriteString(m.dataTable.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("q: quit | Esc: back"))
	}

	return s.String()
}

func (m Model) writeError(s *strings.Builder) {
	if m.err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}
}
