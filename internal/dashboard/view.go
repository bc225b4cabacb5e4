// Package dashboard keeps the live, session-local list of bookings a viewer has
// received since it connected.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"slot-booking-api/internal/model"
)

type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Stream is one fanout connection. Recv blocks until the next booking arrives
// or the connection ends.
type Stream interface {
	Recv() (model.Booking, error)
	Close() error
}

// Dialer opens a fresh Stream. When it returns, the subscription is live.
type Dialer func(ctx context.Context) (Stream, error)

type Option func(*View)

// WithOnChange registers fn to re-render after every appended booking. fn gets
// a copy of the list and must not call Unmount.
func WithOnChange(fn func([]model.Booking)) Option {
	return func(v *View) { v.onChange = fn }
}

type View struct {
	dial     Dialer
	onChange func([]model.Booking)

	// life serializes Mount and Unmount
	life sync.Mutex

	mu      sync.Mutex
	state   State
	entries []model.Booking
	stream  Stream
	done    chan struct{}
	err     error
}

func New(dial Dialer, opts ...Option) *View {
	v := &View{dial: dial}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Mount connects the view and starts receiving. Any previous connection is
// closed first and the list starts empty: nothing is replayed.
func (v *View) Mount(ctx context.Context) error {
	v.life.Lock()
	defer v.life.Unlock()
	v.unmount()

	s, err := v.dial(ctx)
	if err != nil {
		return &model.TransportError{Err: err}
	}
	done := make(chan struct{})

	v.mu.Lock()
	v.entries = nil
	v.err = nil
	v.stream = s
	v.done = done
	v.state = Connected
	v.mu.Unlock()

	go v.loop(s, done)
	return nil
}

// Unmount closes the connection. Calling it on a disconnected view is a no-op.
// The received list stays readable until the next Mount.
func (v *View) Unmount() {
	v.life.Lock()
	defer v.life.Unlock()
	v.unmount()
}

func (v *View) unmount() {
	v.mu.Lock()
	s, done := v.stream, v.done
	v.stream = nil
	v.done = nil
	v.state = Disconnected
	v.mu.Unlock()

	if s != nil {
		_ = s.Close()
	}
	if done != nil {
		<-done
	}
}

func (v *View) loop(s Stream, done chan struct{}) {
	defer close(done)
	for {
		b, err := s.Recv()

		v.mu.Lock()
		if v.stream != s {
			// unmounted while we were blocked
			v.mu.Unlock()
			return
		}
		if err != nil {
			v.stream = nil
			v.state = Disconnected
			if !errors.Is(err, io.EOF) {
				v.err = &model.TransportError{Err: err}
			}
			v.mu.Unlock()
			return
		}
		v.entries = append(v.entries, b)
		snap := append([]model.Booking(nil), v.entries...)
		fn := v.onChange
		v.mu.Unlock()

		if fn != nil {
			fn(snap)
		}
	}
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the transport failure that disconnected the view, if any.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Entries returns the received bookings in arrival order.
func (v *View) Entries() []model.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Booking(nil), v.entries...)
}

// Lines renders each entry as "customer - slot".
func (v *View) Lines() []string {
	entries := v.Entries()
	out := make([]string, len(entries))
	for i, b := range entries {
		out[i] = b.Line()
	}
	return out
}

// Render writes the current list as plain text.
func (v *View) Render(w io.Writer) error {
	lines := v.Lines()
	if _, err := fmt.Fprintf(w, "New Bookings (%s)\n", v.State()); err != nil {
		return err
	}
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "  (none yet)")
		return err
	}
	for i, l := range lines {
		if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, l); err != nil {
			return err
		}
	}
	return nil
}
