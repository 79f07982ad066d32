package logger

import (
	"sync/atomic"

	"github.com/rollbar/rollbar-go"
)

var reporting atomic.Bool

// EnableReporting forwards Report calls to Rollbar. Without a token, errors
// are only logged.
func EnableReporting(token, environment, host string) {
	if token == "" {
		return
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetServerHost(host)
	rollbar.SetEnabled(true)
	reporting.Store(true)
	Info().Str("environment", environment).Msg("error reporting enabled")
}

// Report logs err and, when enabled, sends it to Rollbar with extra context.
func Report(err error, msg string, extras map[string]interface{}) {
	ev := Error().Err(err)
	for k, v := range extras {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)

	if reporting.Load() {
		rollbar.Error(err, extras)
	}
}

// Flush blocks until queued reports are delivered.
func Flush() {
	if reporting.Load() {
		rollbar.Wait()
	}
}
