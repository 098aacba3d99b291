// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// SlogHandler adapts zerolog to the slog.Handler interface so libraries
// that want an *slog.Logger (sutureslog, for the supervision tree) write
// through the same zerolog pipeline as the rest of the application.
type SlogHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler wraps the global zerolog logger.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// NewSlogHandlerWithLogger wraps a specific zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogHandlerWithLogger(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled reports whether records at the given level would be written.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.GetLevel() <= slogToZerologLevel(level)
}

// Handle writes the record through zerolog.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.event(record.Level)

	for _, attr := range h.attrs {
		event = appendAttr(event, attr, h.groups)
	}
	record.Attrs(func(attr slog.Attr) bool {
		event = appendAttr(event, attr, h.groups)
		return true
	})

	event.Msg(record.Message)
	return nil
}

// event maps the record level onto a zerolog event. Levels outside the
// four standard constants land on info rather than guessing a band.
func (h *SlogHandler) event(level slog.Level) *zerolog.Event {
	switch level {
	case slog.LevelDebug:
		return h.logger.Debug()
	case slog.LevelInfo:
		return h.logger.Info()
	case slog.LevelWarn:
		return h.logger.Warn()
	case slog.LevelError:
		return h.logger.Error()
	default:
		return h.logger.Info()
	}
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	child := *h
	// Full slice expression forces append to copy, so siblings created
	// from the same parent cannot clobber each other's attrs.
	child.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return &child
}

// WithGroup returns a handler that prefixes attribute keys with name.
// Zerolog has no native group nesting, so groups flatten to dotted keys.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	child.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &child
}

// appendAttr writes one slog attribute onto a zerolog event, flattening
// groups into dotted keys ordered outermost first.
func appendAttr(event *zerolog.Event, attr slog.Attr, groups []string) *zerolog.Event {
	// Zero attrs are ignored per the slog.Handler contract.
	if attr.Equal(slog.Attr{}) {
		return event
	}

	if attr.Value.Kind() == slog.KindGroup {
		for _, member := range attr.Value.Group() {
			event = appendAttr(event, member, append(groups, attr.Key))
		}
		return event
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	switch attr.Value.Kind() {
	case slog.KindBool:
		return event.Bool(key, attr.Value.Bool())
	case slog.KindDuration:
		return event.Dur(key, attr.Value.Duration())
	case slog.KindFloat64:
		return event.Float64(key, attr.Value.Float64())
	case slog.KindInt64:
		return event.Int64(key, attr.Value.Int64())
	case slog.KindString:
		return event.Str(key, attr.Value.String())
	case slog.KindTime:
		return event.Time(key, attr.Value.Time())
	case slog.KindUint64:
		return event.Uint64(key, attr.Value.Uint64())
	default:
		return event.Interface(key, attr.Value.Any())
	}
}

// slogToZerologLevel converts slog's sparse level scale to zerolog's.
func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewSlogLogger returns an *slog.Logger backed by the global zerolog
// logger, for handing to sutureslog:
//
//	slogger := logging.NewSlogLogger()
//	hook := (&sutureslog.Handler{Logger: slogger}).MustHook()
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}
