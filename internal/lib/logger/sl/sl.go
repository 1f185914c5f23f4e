// Package sl holds small slog attribute helpers shared across the bot.
package sl

import "log/slog"

// Err renders an error under the conventional "error" key.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
