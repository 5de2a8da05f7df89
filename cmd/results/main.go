package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Browses the logs exported by a backtest session:
//
//	results [session folder]
func main() {
	folder := ""
	if len(os.Args) > 1 {
		folder = os.Args[1]
	}

	p := tea.NewProgram(NewModel(folder, nil), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
