// Package notifier delivers reminder text to the user through one or more sinks.
package notifier

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Notifier delivers a single reminder message.
type Notifier interface {
	Notify(text string) error
}

// Func adapts a plain function to Notifier.
type Func func(text string) error

func (f Func) Notify(text string) error { return f(text) }

// Multi fans a message out to every notifier and joins their errors.
// A failing sink does not stop delivery to the others.
type Multi []Notifier

func (m Multi) Notify(text string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Writer prints reminders as plain lines, for terminals and service logs.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer on w, defaulting to stdout.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = os.Stdout
	}
	return &Writer{w: w}
}

func (s *Writer) Notify(text string) error {
	_, err := fmt.Fprintf(s.w, "[reminder] %s\n", text)
	return err
}
