package main

import "github.com/rxtech-lab/argo-fxsim/internal/types"

// LogLoadedMsg carries the rows of a log file.
type LogLoadedMsg struct {
	Log    types.LogType
	Header []string
	Rows   []types.LogRow
}

// LoadErrorMsg indicates that a folder or a log could not be read.
type LoadErrorMsg struct {
	Err error
}

// LogsFoundMsg lists the logs present in the results folder.
type LogsFoundMsg struct {
	Folder string
	Logs   []types.LogType
}
