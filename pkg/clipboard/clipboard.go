// Package clipboard copies generated code to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// ErrUnavailable is returned when no clipboard utility is present.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer writes text to a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteText copies text to the system clipboard.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Report is the user-facing outcome of a copy.
type Report struct {
	OK      bool
	Title   string
	Message string
	Err     error
}

func (r Report) String() string {
	return r.Title + ": " + r.Message
}

// Copy writes text with w and reports success or failure. label names the
// block being copied, e.g. "Array".
func Copy(w Writer, text, label string) Report {
	if err := w.WriteText(text); err != nil {
		log.Debug().Err(err).Str("block", label).Msg("Clipboard write failed")
		return Report{
			Title:   "Copy failed",
			Message: "Unable to copy code to clipboard",
			Err:     err,
		}
	}
	return Report{
		OK:      true,
		Title:   "Code copied!",
		Message: fmt.Sprintf("%s code copied to clipboard", label),
	}
}
