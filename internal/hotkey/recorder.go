package hotkey

import (
	"strings"
	"sync"
)

// RecorderState is the state of a Recorder.
type RecorderState int

const (
	Idle RecorderState = iota
	Recording
)

func (s RecorderState) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// DismissSource delivers external dismissal signals, such as a click outside
// the recording control or the terminal losing focus. Subscribe returns a
// function that cancels the subscription.
type DismissSource interface {
	Subscribe(fn func()) (cancel func())
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithOnChange registers the consumer callback. It receives the joined
// hotkey on every growth of the capture, on finalization and on Clear.
func WithOnChange(fn func(value string)) RecorderOption {
	return func(r *Recorder) { r.onChange = fn }
}

// WithOnBlur registers the callback fired when recording ends through an
// external dismissal.
func WithOnBlur(fn func()) RecorderOption {
	return func(r *Recorder) { r.onBlur = fn }
}

// WithDismissSource sets the source subscribed to while recording.
func WithDismissSource(src DismissSource) RecorderOption {
	return func(r *Recorder) { r.source = src }
}

// Recorder captures key presses during a recording session and turns them
// into a hotkey token sequence.
type Recorder struct {
	mu       sync.Mutex
	state    RecorderState
	tokens   []string // current value, shown to the user
	captured []string // keys pressed during the active session
	session  uint64
	cancel   func()

	onChange func(string)
	onBlur   func()
	source   DismissSource
}

// NewRecorder returns an idle Recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetValue loads an externally stored hotkey without reporting it.
func (r *Recorder) SetValue(raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = Tokenize(raw)
}

// State returns the current state.
func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Tokens returns a copy of the current token sequence.
func (r *Recorder) Tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tokens...)
}

// Value returns the current hotkey in joined form.
func (r *Recorder) Value() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Join(r.tokens)
}

// Display returns the current hotkey formatted for presentation.
func (r *Recorder) Display() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.tokens, " + ")
}

// Start begins a recording session. It is a no-op while recording.
func (r *Recorder) Start() {
	r.mu.Lock()
	if r.state == Recording {
		r.mu.Unlock()
		return
	}
	r.state = Recording
	r.captured = nil
	r.session++
	session := r.session
	source := r.source
	r.mu.Unlock()

	if source == nil {
		return
	}
	cancel := source.Subscribe(func() { r.dismiss(session) })

	r.mu.Lock()
	if r.state == Recording && r.session == session {
		r.cancel = cancel
		cancel = nil
	}
	r.mu.Unlock()
	// The session ended while subscribing.
	if cancel != nil {
		cancel()
	}
}

// Stop ends the recording session and reports the final value. It is a
// no-op while idle.
func (r *Recorder) Stop() {
	r.finish(0, false)
}

// Toggle starts a session when idle and stops it when recording.
func (r *Recorder) Toggle() {
	if r.State() == Recording {
		r.Stop()
		return
	}
	r.Start()
}

// KeyDown records a key press. Keys pressed while idle are ignored.
func (r *Recorder) KeyDown(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if strings.EqualFold(key, "meta") {
		key = CommandOrControl
	}

	r.mu.Lock()
	if r.state != Recording {
		r.mu.Unlock()
		return
	}
	for _, k := range r.captured {
		if strings.EqualFold(k, key) {
			r.mu.Unlock()
			return
		}
	}
	r.captured = append(r.captured, key)
	r.tokens = append([]string(nil), r.captured...)
	value := Join(r.tokens)
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(value)
	}
}

// Clear resets the hotkey to empty and reports "" in any state.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.tokens = nil
	r.captured = nil
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange("")
	}
}

func (r *Recorder) dismiss(session uint64) {
	r.finish(session, true)
}

// finish moves the recorder to Idle. A non-zero session only finishes that
// session, so a stale dismissal cannot end a newer one.
func (r *Recorder) finish(session uint64, dismissed bool) {
	r.mu.Lock()
	if r.state != Recording || (session != 0 && session != r.session) {
		r.mu.Unlock()
		return
	}
	r.state = Idle
	r.captured = nil
	cancel := r.cancel
	r.cancel = nil
	value := Join(r.tokens)
	onChange := r.onChange
	onBlur := r.onBlur
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if onChange != nil {
		onChange(value)
	}
	if dismissed && onBlur != nil {
		onBlur()
	}
}

// Broadcaster is an in-process DismissSource. Publish delivers a signal to
// every current subscriber.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func())}
}

// Subscribe implements DismissSource.
func (b *Broadcaster) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish signals all subscribers.
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
