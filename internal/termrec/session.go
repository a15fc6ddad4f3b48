package termrec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

// ErrAborted is returned when input ends before the user finishes.
var ErrAborted = errors.New("recording aborted")

// Result is the outcome of a recording session.
type Result struct {
	Value     string
	Dismissed bool // a focus loss ended at least one recording
}

// Session drives a hotkey.Recorder from terminal input.
type Session struct {
	in      io.Reader
	out     io.Writer
	focus   *hotkey.Broadcaster
	rec     *hotkey.Recorder
	label   string
	outMu   sync.Mutex
	blurred bool
}

// NewSession prepares a session for the role named label, starting from
// the initial value.
func NewSession(in io.Reader, out io.Writer, label, initial string) *Session {
	s := &Session{in: in, out: out, focus: hotkey.NewBroadcaster(), label: label}
	s.rec = hotkey.NewRecorder(
		hotkey.WithOnChange(s.show),
		hotkey.WithOnBlur(func() {
			s.blurred = true
			s.printf("\r\n(terminal lost focus, recording stopped)\r\n")
		}),
		hotkey.WithDismissSource(s.focus),
	)
	s.rec.SetValue(initial)
	return s
}

// Recorder exposes the underlying recorder.
func (s *Session) Recorder() *hotkey.Recorder {
	return s.rec
}

func (s *Session) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) show(value string) {
	display := strings.Join(hotkey.Tokenize(value), " + ")
	if display == "" {
		display = "(none)"
	}
	s.printf("\r\x1b[K%s: %s", s.label, display)
}

func (s *Session) help() {
	s.printf("Recording hotkey for %s.\r\n", s.label)
	s.printf("Enter: start/stop recording  Backspace: clear  q: done\r\n")
	s.show(s.rec.Value())
}

// Run processes input until the user finishes, input ends or ctx is done.
func (s *Session) Run(ctx context.Context) (Result, error) {
	s.help()

	chunks := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := s.in.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.rec.Stop()
			return s.result(), ctx.Err()
		case err := <-readErr:
			s.rec.Stop()
			if errors.Is(err, io.EOF) {
				return s.result(), ErrAborted
			}
			return s.result(), fmt.Errorf("read terminal: %w", err)
		case chunk := <-chunks:
			for _, ev := range Decode(chunk) {
				if s.handle(ev) {
					s.printf("\r\n")
					return s.result(), nil
				}
			}
		}
	}
}

func (s *Session) result() Result {
	return Result{Value: s.rec.Value(), Dismissed: s.blurred}
}

// handle applies ev and reports whether the session is finished.
func (s *Session) handle(ev Event) bool {
	recording := s.rec.State() == hotkey.Recording
	switch ev.Kind {
	case KindEnter:
		s.rec.Toggle()
	case KindFocusOut:
		s.focus.Publish()
	case KindFocusIn:
	case KindBackspace:
		if !recording {
			s.rec.Clear()
		}
	case KindKey:
		if recording {
			for _, k := range ev.Keys {
				s.rec.KeyDown(k)
			}
			return false
		}
		if ev.Rune == 'q' || isCtrlC(ev) {
			return true
		}
	}
	return false
}

func isCtrlC(ev Event) bool {
	return len(ev.Keys) == 2 && ev.Keys[0] == "Control" && ev.Keys[1] == "C"
}
