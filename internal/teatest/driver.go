// Package teatest drives bubbletea models, huh prompts included, without a
// terminal. Update is called directly and returned commands are drained
// synchronously, so a test can script key presses and then inspect the
// model.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// MaxDrainDepth bounds command chains that keep producing messages.
const MaxDrainDepth = 100

// Cursor blink commands sleep for about half a second. Anything slower than
// this is treated as a timer and dropped.
const cmdTimeout = 10 * time.Millisecond

// Common keys.
var (
	Enter = tea.KeyMsg{Type: tea.KeyEnter}
	Esc   = tea.KeyMsg{Type: tea.KeyEsc}
	Up    = tea.KeyMsg{Type: tea.KeyUp}
	Down  = tea.KeyMsg{Type: tea.KeyDown}
	CtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

// Driver owns a model and feeds it messages.
type Driver struct {
	t     *testing.T
	Model tea.Model
	// Done is set once the model asks the program to quit.
	Done bool
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model and runs its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{t: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.drain(d.Model.Init(), 0)
	return d
}

// Send dispatches msgs in order, draining after each one. Messages after
// the model quits are dropped.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	d.t.Helper()
	for _, msg := range msgs {
		if d.Done {
			return d
		}
		var cmd tea.Cmd
		d.Model, cmd = d.Model.Update(msg)
		d.drain(cmd, 0)
	}
	return d
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) *Driver {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return d
}

func (d *Driver) View() string {
	return d.Model.View()
}

// FormState reports the huh state when the model is a form.
func (d *Driver) FormState() huh.FormState {
	d.t.Helper()
	form, ok := d.Model.(*huh.Form)
	if !ok {
		d.t.Fatalf("teatest: model is %T, not *huh.Form", d.Model)
	}
	return form.State
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.t.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Done = true
		d.Model, _ = d.Model.Update(m)
	default:
		var next tea.Cmd
		d.Model, next = d.Model.Update(m)
		d.drain(next, depth+1)
	}
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// Blink message types are unexported in bubbles/cursor.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
