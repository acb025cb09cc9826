// Package logging configures structured logging on top of log/slog.
//
// Components take a *slog.Logger and tag their records with a "component"
// attribute; this package only builds the handler from configuration and
// optionally installs it as the process default.
package logging
