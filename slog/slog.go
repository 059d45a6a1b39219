// Package slog provides logging decorators for siteaudit services.
// Each decorator logs one structured record per call with its duration and
// error, then returns the wrapped service's result unchanged.
package slog
