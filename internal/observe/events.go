package observe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/unbound-force/pyreview/internal/review"
)

// EventsSchema is the JSON Schema (Draft 2020-12) for the recorded
// test-execution event log consumed by ReadEvents. A small pytest
// hook writes this document during a run; pyreview replays it
// through the observers afterward.
const EventsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/pyreview/events.schema.json",
  "title": "pyreview Execution Events",
  "type": "object",
  "required": ["version", "events"],
  "properties": {
    "version": { "type": "string" },
    "events": {
      "type": "array",
      "items": { "$ref": "#/$defs/Event" }
    }
  },
  "$defs": {
    "Event": {
      "type": "object",
      "required": ["action", "test"],
      "properties": {
        "action": { "enum": ["start", "end"] },
        "test": { "type": "string", "minLength": 1 },
        "passed": { "type": "boolean" },
        "duration_seconds": { "type": "number", "minimum": 0 }
      }
    }
  }
}`

// Event is one recorded test lifecycle event. Passed and
// DurationSeconds are only meaningful on end events.
type Event struct {
	Action          string  `json:"action"`
	Test            string  `json:"test"`
	Passed          bool    `json:"passed,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// eventsDoc is the top-level event log document.
type eventsDoc struct {
	Version string  `json:"version"`
	Events  []Event `json:"events"`
}

var (
	eventsSchemaOnce sync.Once
	eventsSchema     *jsonschema.Schema
	eventsSchemaErr  error
)

func compiledEventsSchema() (*jsonschema.Schema, error) {
	eventsSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(EventsSchema)))
		if err != nil {
			eventsSchemaErr = fmt.Errorf("parsing events schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("events.schema.json", doc); err != nil {
			eventsSchemaErr = fmt.Errorf("adding events schema: %w", err)
			return
		}
		eventsSchema, eventsSchemaErr = compiler.Compile("events.schema.json")
	})
	return eventsSchema, eventsSchemaErr
}

// ReadEvents parses and validates an event log document.
func ReadEvents(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}

	sch, err := compiledEventsSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing events document: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid events document: %w", err)
	}

	var doc eventsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding events document: %w", err)
	}
	return doc.Events, nil
}

// Replay feeds a recorded event stream through the observers.
// Sessions must not overlap: each start must be closed by a
// matching end before the next test starts, since observers keep a
// single current-test snapshot.
func Replay(events []Event, observers ...review.Observer) error {
	open := ""
	for i, ev := range events {
		switch ev.Action {
		case "start":
			if open != "" {
				return fmt.Errorf("event %d: test %q started while %q is still running", i, ev.Test, open)
			}
			open = ev.Test
			for _, obs := range observers {
				obs.OnTestStart(ev.Test)
			}
		case "end":
			if open == "" {
				return fmt.Errorf("event %d: test %q ended without starting", i, ev.Test)
			}
			if ev.Test != open {
				return fmt.Errorf("event %d: test %q ended while %q is running", i, ev.Test, open)
			}
			open = ""
			duration := time.Duration(ev.DurationSeconds * float64(time.Second))
			for _, obs := range observers {
				obs.OnTestEnd(ev.Test, ev.Passed, duration)
			}
		default:
			return fmt.Errorf("event %d: unknown action %q", i, ev.Action)
		}
	}
	return nil
}
