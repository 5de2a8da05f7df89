package main

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

// profitColumns are rendered with FormatProfit.
var profitColumns = map[string]bool{
	"ORD_PNL":              true,
	"REP_TOTAL_NET_PROFIT": true,
	"REP_LARGEST_WIN":      true,
	"REP_LARGEST_LOSS":     true,
	"REP_AVG_NET_PROFIT":   true,
}

// listItem implements list.Item interface for the log list.
type listItem struct {
	log         types.LogType
	description string
}

func (i listItem) Title() string       { return i.log.FileName() }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.log.FileName() }

func describeLog(log types.LogType) string {
	switch log {
	case types.LogTypeRuns:
		return "Parameter combination of every run"
	case types.LogTypeCandles:
		return "Every bar of the first run"
	case types.LogTypeAccounts:
		return "Account snapshot whenever the balance moved"
	case types.LogTypeOrders:
		return "Every closed order"
	case types.LogTypeReports:
		return "Performance summary of every run"
	default:
		return ""
	}
}

// NewLogList creates a new list for log selection.
func NewLogList(logs []types.LogType) list.Model {
	items := make([]list.Item, len(logs))
	for i, log := range logs {
		items[i] = listItem{log: log, description: describeLog(log)}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Log"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewFolderInput creates a new text input for the results folder.
func NewFolderInput(folder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "results/EUR_USD/sma_crossover/20240101_20240131/<session>"
	ti.SetValue(folder)
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 70
	ti.Prompt = "> "

	return ti
}

// NewDataTable creates a new table for displaying log rows.
func NewDataTable() table.Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTable replaces the columns and rows of t. Each column is as wide as
// its longest value.
func UpdateTable(t table.Model, header []string, rows []types.LogRow) table.Model {
	widths := make([]int, len(header))
	for i, name := range header {
		widths[i] = len(name)
	}

	tableRows := make([]table.Row, 0, len(rows))

	for _, row := range rows {
		tableRow := make(table.Row, len(header))

		for i := range header {
			if i >= len(row) {
				continue
			}

			value := row[i]
			if profitColumns[header[i]] {
				value = FormatProfit(value)
			}

			tableRow[i] = value
			widths[i] = max(widths[i], lipgloss.Width(value))
		}

		tableRows = append(tableRows, tableRow)
	}

	columns := make([]table.Column, len(header))
	for i, name := range header {
		columns[i] = table.Column{Title: name, Width: widths[i]}
	}

	// rows must be cleared before the column count shrinks
	t.SetRows(nil)
	t.SetColumns(columns)
	t.SetRows(tableRows)

	return t
}
