// Package telemetry logs hub events through zerolog. Recorder satisfies the
// Telemetry interfaces of the dashboard, commands and theme packages.
package telemetry

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// NewLogger builds a zerolog logger. Format "console" writes human-readable
// lines; anything else writes JSON.
func NewLogger(opts Options) (zerolog.Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), err
		}
		level = parsed
	}

	output := writer
	if strings.EqualFold(opts.Format, "console") {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

// Recorder turns telemetry events into log entries.
type Recorder struct {
	logger zerolog.Logger
}

// NewRecorder wraps logger.
func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Record logs event with payload fields in key order. Failure events log
// at warn; layout resolution, which runs on every page view, at debug.
func (r *Recorder) Record(_ context.Context, event string, payload map[string]any) {
	if r == nil {
		return
	}
	entry := r.logger.WithLevel(levelFor(event))
	if entry == nil {
		return
	}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		entry = entry.Interface(key, payload[key])
	}
	entry.Str("event", event).Msg(event)
}

func levelFor(event string) zerolog.Level {
	switch {
	case strings.HasSuffix(event, "_failed"),
		strings.HasSuffix(event, "_error"),
		strings.HasSuffix(event, "load_fallback"):
		return zerolog.WarnLevel
	case event == "dashboard.layout.resolve", event == "dashboard.deals.page":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
