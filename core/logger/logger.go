// Package logger records shell execution events in newline delimited JSON
// object format.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogRecorder is a callback that stores entries in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures execution events for the shell.
type Logger struct {
	Record LogRecorder
}

// NewJSONLinesLogRecorder creates a Logger that exports entries as one JSON
// object per line.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewSession creates a logger with an attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// LogEntry is one recorded event. Exactly one of the event fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id"`

	PipelineStart *PipelineStart `json:"pipeline_start,omitempty"`
	StageExit     *StageExit     `json:"stage_exit,omitempty"`
}

// PipelineStart marks the start of one parsed command line.
type PipelineStart struct {
	Line   string `json:"line"`
	Stages int    `json:"stages"`
}

// StageExit records a collected child process.
type StageExit struct {
	Args       []string `json:"args"`
	PID        int      `json:"pid"`
	ExitCode   int      `json:"exit_code"`
	DurationMS int64    `json:"duration_ms"`
}

// SessionLogger tags entries with a session ID. A nil SessionLogger
// discards everything, so callers never need to guard their log calls.
type SessionLogger struct {
	logger    *Logger
	sessionID string
}

func (s *SessionLogger) record(set func(le *LogEntry)) {
	if s == nil || s.logger == nil || s.logger.Record == nil {
		return
	}
	le := &LogEntry{
		TimestampMicros: time.Now().UnixMicro(),
		SessionID:       s.sessionID,
	}
	set(le)
	// Logging must never affect execution.
	_ = s.logger.Record(le)
}

// PipelineStart records one parsed command line about to run.
func (s *SessionLogger) PipelineStart(line string, stages int) {
	s.record(func(le *LogEntry) {
		le.PipelineStart = &PipelineStart{Line: line, Stages: stages}
	})
}

// StageExit records a child process the shell has collected.
func (s *SessionLogger) StageExit(args []string, pid, exitCode int, d time.Duration) {
	s.record(func(le *LogEntry) {
		le.StageExit = &StageExit{
			Args:       args,
			PID:        pid,
			ExitCode:   exitCode,
			DurationMS: d.Milliseconds(),
		}
	})
}
