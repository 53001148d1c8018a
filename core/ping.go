package core

import "context"

// Ping sends settings.Count echo requests to host and returns how many were transmitted
// and how many replies were received. Unless settings.Quiet is set, the run is printed
// to settings.Output.
//
// The only error before sending is an invalid setting, wrapping ErrInvalidArgument.
// An unresolvable host returns (0, 0, nil).
func Ping(ctx context.Context, host string, settings *Settings, opts ...Option) (transmitted, received int, err error) {
	if settings == nil {
		settings = DefaultSettings()
	}

	s, err := NewSession(host, settings, opts...)
	if err != nil {
		return 0, 0, err
	}

	if !settings.Quiet {
		NewTextReporter(settings.output(), settings.Color).Attach(s)
	}

	return s.Run(ctx)
}
