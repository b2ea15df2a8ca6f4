package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const execInfoTableName = "exec_info"

// An execInfo row describes one property of a program execution.
type execInfo struct {
	Property string
	Value    string
}

// An ExecRecorder logs the command line and the wall-clock span of a program
// execution alongside the recorded data, so that a result database is
// self-describing.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

// NewExecRecorder creates an ExecRecorder that logs into the exec_info table
// of the given recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		recorder: recorder,
		entries:  []execInfo{},
	}

	e.recorder.CreateTable(execInfoTableName, execInfo{})

	return e
}

// Start captures the start time, the command line, and the directory of the
// executable.
func (e *ExecRecorder) Start() {
	currentTime := time.Now()
	startTime := currentTime.Format("2006-01-02 15:04:05.000000000")
	e.entries = append(e.entries, execInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	e.entries = append(e.entries, execInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cwd := filepath.Dir(ex)
	e.entries = append(e.entries, execInfo{"Working Directory", cwd})
}

// End writes the captured properties and the end time into the database.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(execInfoTableName, entry)
	}

	endTime := time.Now()
	endValue := endTime.Format("2006-01-02 15:04:05.000000000")
	e.recorder.InsertData(execInfoTableName, execInfo{"End Time", endValue})

	e.entries = nil

	e.recorder.Flush()
}
