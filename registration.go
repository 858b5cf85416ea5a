package sitegen

import (
	"errors"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions selects where the module's handlers get registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the registered handlers and dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe tears down every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	r.Subscriptions = nil
}

// RegisterCommands hands the generate, local-SEO and export handlers to the
// configured registry and dispatcher. Registration keeps going after a
// failure; every error is joined into the returned one.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, 4),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if m == nil || m.container == nil {
		return result, nil
	}

	var errs error
	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			sub, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if sub != nil {
				result.Subscriptions = append(result.Subscriptions, sub)
			}
		}
	}

	register(m.container.GeneratePagesHandler())
	register(m.container.GenerateLocalSEOHandler())
	register(m.container.ClearLocalSEOHandler())
	register(m.container.ExportSiteHandler())

	m.container.Logger().Debug("commands.registered", "handlers", len(result.Handlers), "subscriptions", len(result.Subscriptions))
	return result, errs
}
