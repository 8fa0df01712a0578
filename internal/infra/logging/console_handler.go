package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

//nolint:gochecknoglobals
var levelColors = map[slog.Level]string{
	slog.LevelDebug: ansiCyan,
	slog.LevelInfo:  ansiGreen,
	slog.LevelWarn:  ansiYellow,
	slog.LevelError: ansiRed,
}

// ConsoleHandler implements slog.Handler with colored, human-readable output
// suitable for development environments.
type ConsoleHandler struct {
	output io.Writer
	level  slog.Leveler

	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// NewConsoleHandler creates a ConsoleHandler writing to output, filtering
// records below level.
func NewConsoleHandler(output io.Writer, level slog.Leveler) *ConsoleHandler {
	return &ConsoleHandler{
		output: output,
		level:  level,
		mu:     new(sync.Mutex),
	}
}

// Handle implements slog.Handler by formatting the record as a single colored
// line: timestamp, level, message and flattened attributes.
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	var line strings.Builder

	line.WriteString(ansiGray + r.Time.Format("15:04:05.000") + ansiReset)
	line.WriteString(" " + levelColors[r.Level] + "[" + r.Level.String() + "]" + ansiReset)
	line.WriteString(" " + r.Message)

	var prefix string
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	attrs = append(attrs, h.attrs...)

	if len(attrs) > 0 {
		line.WriteString(" " + ansiGray + "|" + ansiReset)
		renderAttrs(&line, prefix, attrs)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := fmt.Fprintln(h.output, line.String()); err != nil {
		return fmt.Errorf("write log line: %w", err)
	}

	return nil
}

func renderAttrs(line *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		if attr.Value.Kind() == slog.KindGroup {
			renderAttrs(line, prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		line.WriteString(" " + prefix + attr.Key)
		line.WriteString("=" + ansiGray + attr.Value.String() + ansiReset)
	}
}

// WithAttrs implements slog.Handler.WithAttrs.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) Handler {
	return &ConsoleHandler{
		output: h.output,
		level:  h.level,
		mu:     h.mu,
		attrs:  append(h.attrs, attrs...),
		groups: h.groups,
	}
}

// WithGroup implements slog.Handler.WithGroup.
func (h *ConsoleHandler) WithGroup(name string) Handler {
	return &ConsoleHandler{
		output: h.output,
		level:  h.level,
		mu:     h.mu,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
}

// Enabled implements slog.Handler.Enabled.
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.level.Level() <= level
}
