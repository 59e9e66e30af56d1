package logger

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Colors.
const (
	slate  = "#667085"
	red    = "#D93025"
	yellow = "#F59E0B"
)

// Icons.
const (
	crossIcon   = "✗"
	warningIcon = "!"
)

// colorProfile returns Ascii when NO_COLOR is set and the detected profile otherwise.
func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// newOutput creates a termenv.Output for w using colorProfile.
func newOutput(w io.Writer) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w,
		termenv.WithProfile(colorProfile()),
		termenv.WithTTY(true),
	)
}
