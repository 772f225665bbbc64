// Package preview implements the live preview loop: edits stream in over a
// websocket, a debounce coalesces them, and the page composer re-renders
// into the client's isolated preview frame. The rendering path is the same
// Compose call the published page uses, so the preview stays byte-identical
// to the real page.
package preview

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DebounceInterval is how long the driver waits after the last edit before
// rendering. This is backpressure, not correctness: renders are serialized
// anyway, the debounce only avoids a render per keystroke.
const DebounceInterval = 300 * time.Millisecond

// Driver is the debounced render loop for one preview surface.
// Any input event while a render is pending restarts the timer
// (cancel-and-restart, not queued). A hidden surface suppresses render work
// entirely rather than hiding its output.
type Driver struct {
	mu       sync.Mutex
	debounce func(func())
	render   func() string
	emit     func(string)
	visible  bool
}

// NewDriver creates a driver that renders through render and delivers the
// HTML through emit. The surface starts visible.
func NewDriver(render func() string, emit func(string)) *Driver {
	return &Driver{
		debounce: debounce.New(DebounceInterval),
		render:   render,
		emit:     emit,
		visible:  true,
	}
}

// Input signals that an edit happened. The render fires once the debounce
// window closes without another edit.
func (d *Driver) Input() {
	d.debounce(d.run)
}

// Flush renders immediately, bypassing the debounce. Used when a client
// connects and on explicit refresh requests.
func (d *Driver) Flush() {
	d.run()
}

// SetVisible toggles the preview surface. Turning it back on triggers an
// immediate render so the surface catches up with edits made while hidden.
func (d *Driver) SetVisible(visible bool) {
	d.mu.Lock()
	was := d.visible
	d.visible = visible
	d.mu.Unlock()
	if visible && !was {
		d.run()
	}
}

// run executes one render if the surface is visible. The lock serializes
// renders for the session; there is never more than one in flight.
func (d *Driver) run() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		return
	}
	d.emit(d.render())
}
