package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

// reporter renders the progress of a sequential batch of remote calls.
type reporter interface {
	Step(i, total int, label string)
	Done()
}

type spinnerReporter struct {
	s      *spinner.Spinner
	prefix string
}

// newSpinnerReporter makes a reporter rendering an animated spinner with
// the current position of the batch in its suffix.
func newSpinnerReporter(prefix string) reporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Start()
	return &spinnerReporter{s: s, prefix: prefix}
}

// Step updates the spinner with the currently processed item.
func (r *spinnerReporter) Step(i, total int, label string) {
	r.s.Suffix = fmt.Sprintf(" %s (%d/%d) %s", r.prefix, i, total, label)
}

// Done stops the spinner.
func (r *spinnerReporter) Done() { r.s.Stop() }
