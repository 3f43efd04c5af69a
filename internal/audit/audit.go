// Package audit records who did what to the reconciliation data: completed
// runs and applied correction suggestions. Records live in a YAML file next
// to the other application data.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"fjacquet/recon-csv/internal/logging"
)

// Event is one audit record.
type Event struct {
	Timestamp time.Time         `yaml:"timestamp"`
	Action    string            `yaml:"action"`
	Detail    map[string]string `yaml:"detail,omitempty"`
}

// Actions recorded by the application.
const (
	ActionReconcileRun    = "reconcile_run"
	ActionSuggestionApply = "suggestion_apply"
)

// Sink accepts audit events.
type Sink interface {
	Record(event Event) error
}

// Nop returns a sink that drops everything.
func Nop() Sink {
	return nopSink{}
}

type nopSink struct{}

func (nopSink) Record(Event) error { return nil }

// FileSink appends events to a YAML file, creating it on first use.
type FileSink struct {
	path string
	log  logging.Logger
}

// NewFileSink creates a sink writing to the given file.
func NewFileSink(path string, log logging.Logger) *FileSink {
	if log == nil {
		log = logging.Nop()
	}
	return &FileSink{path: path, log: log}
}

// Record appends one event. The timestamp is filled in when the caller
// left it zero.
func (s *FileSink) Record(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	events, err := s.Events()
	if err != nil {
		return err
	}
	events = append(events, event)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating audit directory: %w", err)
		}
	}

	data, err := yaml.Marshal(events)
	if err != nil {
		return fmt.Errorf("error marshaling audit events: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("error writing audit file: %w", err)
	}

	s.log.Debug("audit event recorded", logging.F(logging.FieldAction, event.Action))
	return nil
}

// Events loads all recorded events. A missing file yields an empty list.
func (s *FileSink) Events() ([]Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading audit file: %w", err)
	}

	var events []Event
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("error parsing audit file: %w", err)
	}
	return events, nil
}
