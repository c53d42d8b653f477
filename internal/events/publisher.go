// Package events publishes committed ledger changes to interested consumers.
package events

import "context"

// Publisher delivers events. Implementations must not block for long; the
// ledger is already committed when Publish is called.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, *Event) error {
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []*Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e *Event) error {
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, e)
	return nil
}
