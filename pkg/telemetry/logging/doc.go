// Package logging configures structured logging for the pipeline.
//
// It is a thin layer over log/slog: a Config selects level, format, and
// source annotation, and New produces a *slog.Logger that components scope
// with .With("component", ...). JSON is the default format so operational
// logs stay machine-readable alongside the audit ledger.
package logging
