package progress

import (
	"fmt"
	"io"

	"github.com/panbanda/unused-files-seeker/pkg/analyzer"
	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress spinner for the reachability walk.
type Tracker struct {
	bar   *progressbar.ProgressBar
	w     io.Writer
	label string
}

// NewSpinnerTo creates a spinner writing to w for a walk whose length is not known up front.
func NewSpinnerTo(w io.Writer, label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, w: w, label: label}
}

// Tick advances the spinner by one file.
func (t *Tracker) Tick() {
	_ = t.bar.Add(1)
}

// Func adapts the spinner to an analyzer.ProgressFunc.
func (t *Tracker) Func() analyzer.ProgressFunc {
	return func(current, total int, path string) {
		t.Tick()
	}
}

// FinishSuccess clears the spinner completely (no output).
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError clears the spinner and prints an error message.
func (t *Tracker) FinishError(err error) {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}
