package sitegen_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sitegen"
)

type recordingRegistry struct {
	handlers []any
	failOn   int
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	if r.failOn > 0 && len(r.handlers) == r.failOn {
		return errors.New("registry full")
	}
	return nil
}

type recordingDispatcher struct {
	subs []*recordingSubscription
}

type recordingSubscription struct {
	closed bool
}

func (s *recordingSubscription) Unsubscribe() { s.closed = true }

func (d *recordingDispatcher) RegisterCommand(any) (sitegen.CommandSubscription, error) {
	sub := &recordingSubscription{}
	d.subs = append(d.subs, sub)
	return sub, nil
}

func TestRegisterCommandsWiresEveryHandler(t *testing.T) {
	module, err := sitegen.New(sitegen.DefaultConfig())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer module.Close()

	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	result, err := module.RegisterCommands(sitegen.RegistrationOptions{Registry: registry, Dispatcher: dispatcher})
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}
	if len(result.Handlers) != 4 || len(registry.handlers) != 4 {
		t.Fatalf("expected 4 handlers, got %d registered %d", len(result.Handlers), len(registry.handlers))
	}
	if len(result.Subscriptions) != 4 {
		t.Fatalf("expected 4 subscriptions, got %d", len(result.Subscriptions))
	}

	result.Unsubscribe()
	for i, sub := range dispatcher.subs {
		if !sub.closed {
			t.Fatalf("subscription %d still open", i)
		}
	}
}

func TestRegisterCommandsJoinsErrors(t *testing.T) {
	module, err := sitegen.New(sitegen.DefaultConfig())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer module.Close()

	registry := &recordingRegistry{failOn: 2}
	result, err := module.RegisterCommands(sitegen.RegistrationOptions{Registry: registry})
	if err == nil {
		t.Fatalf("expected registry error")
	}
	if len(registry.handlers) != 4 || len(result.Handlers) != 4 {
		t.Fatalf("expected registration to continue after failure, got %d", len(registry.handlers))
	}
}
