// Package render presents trends on a terminal.
package render

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator shows a spinner while trends are being fetched.
// It is driven by the Fetching flag of published trends.
type Indicator struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	active  bool
}

// NewIndicator creates an indicator writing to w. When enabled is false the indicator
// only tracks state and draws nothing, e.g. when w is not a terminal.
func NewIndicator(w io.Writer, enabled bool, label string) *Indicator {
	i := &Indicator{}
	if enabled {
		i.spinner = spinner.New(spinner.CharSets[11], 200*time.Millisecond,
			spinner.WithWriter(w),
			spinner.WithColor("green"),
			spinner.WithSuffix(" "+label))
	}
	return i
}

// Update starts or stops the spinner to match fetching.
func (i *Indicator) Update(fetching bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if fetching == i.active {
		return
	}
	i.active = fetching
	if i.spinner == nil {
		return
	}
	if fetching {
		i.spinner.Start()
	} else {
		i.spinner.Stop()
	}
}

// Active reports whether the loading indicator is showing.
func (i *Indicator) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active
}

// Stop hides the indicator.
func (i *Indicator) Stop() {
	i.Update(false)
}
