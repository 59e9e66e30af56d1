package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
)

// PrettyHandler is a slog.Handler writing one colored line per record:
// an icon for warnings and errors, the message, then key=value attributes.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	// prefix is prepended to attribute keys; it holds the open groups joined by dots.
	prefix string
	// preformatted holds the attributes added through WithAttrs, already rendered.
	preformatted string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
// Records below opts.Level, or below Info when unset, are dropped.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{out: newOutput(w), level: level}
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// levelStyle returns the icon and color a record of level is printed with.
func levelStyle(level slog.Level) (icon, color string) {
	switch {
	case level >= slog.LevelError:
		return crossIcon, red
	case level >= slog.LevelWarn:
		return warningIcon, yellow
	default:
		return "", slate
	}
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelStyle(r.Level)

	var line strings.Builder
	if icon != "" {
		line.WriteString(icon)
		line.WriteByte(' ')
	}
	line.WriteString(r.Message)
	line.WriteString(h.preformatted)
	r.Attrs(func(attr slog.Attr) bool {
		h.writeAttr(&line, attr)
		return true
	})

	styled := h.out.String(line.String()).Foreground(termenv.RGBColor(color))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

func (h *PrettyHandler) writeAttr(line *strings.Builder, attr slog.Attr) {
	line.WriteByte(' ')
	line.WriteString(h.prefix)
	line.WriteString(attr.Key)
	line.WriteByte('=')
	line.WriteString(attr.Value.String())
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var line strings.Builder
	line.WriteString(h.preformatted)
	for _, attr := range attrs {
		h.writeAttr(&line, attr)
	}
	clone := *h
	clone.preformatted = line.String()
	return &clone
}

// WithGroup implements slog.Handler. Nested groups join with dots.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
