// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"encoding/json"
	"fmt"

	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

// Event is a single observed log entry: the operation the kernel
// dispatched, the one resource string it logged (if any), and the
// outcome it produced. The argument is the only context available to
// the attribution engine — anything else the kernel used to decide
// but did not log is lost.
type Event struct {
	Operation string         `json:"operation"`
	Argument  string         `json:"argument,omitempty"`
	Action    ruleset.Action `json:"action"`
}

// HasArgument reports whether the event carries a resource argument.
func (e Event) HasArgument() bool {
	return e.Argument != ""
}

// Load parses a JSON event-list document (an array of Event objects).
func Load(data []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("event: decoding event list: %w", err)
	}
	return events, nil
}
