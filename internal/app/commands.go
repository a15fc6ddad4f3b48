package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/TanaroSch/translator-hotkeys/internal/config"
)

// ErrNoCommand is returned when a role fires without a configured command.
var ErrNoCommand = errors.New("no command configured")

// Launcher starts an external process.
type Launcher interface {
	Launch(argv, env []string) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(argv, env []string) error

// Launch implements Launcher.
func (f LauncherFunc) Launch(argv, env []string) error { return f(argv, env) }

// ExecLauncher starts commands detached from the daemon and logs their exit.
type ExecLauncher struct{}

// Launch implements Launcher.
func (ExecLauncher) Launch(argv, env []string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}
	c := exec.Command(argv[0], argv[1:]...)
	c.Env = append(os.Environ(), env...)
	detach(c)
	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to start command %v: %w", argv, err)
	}
	pid := c.Process.Pid
	go func() {
		if err := c.Wait(); err != nil {
			log.Printf("Command %s (pid %d) exited: %v", argv[0], pid, err)
		}
	}()
	return nil
}

// Placeholder values substituted into command templates.
type placeholders struct {
	text   string
	action string
	locale string
	pinned bool
}

// expand substitutes {text}, {action}, {locale} and {pinned} in every
// argument. Substitution happens per argument so text never splits into
// extra arguments.
func expand(template []string, p placeholders) []string {
	r := strings.NewReplacer(
		"{text}", p.text,
		"{action}", p.action,
		"{locale}", p.locale,
		"{pinned}", strconv.FormatBool(p.pinned),
	)
	out := make([]string, len(template))
	for i, arg := range template {
		out[i] = r.Replace(arg)
	}
	return out
}

// commandFor returns the command template of role.
func commandFor(s *config.Settings, role config.Role) []string {
	switch role.Kind {
	case config.RolePrimary, config.RoleAction:
		return s.Commands.Translate
	case config.RoleDisplayWindow:
		return s.Commands.DisplayWindow
	case config.RoleOCR:
		return s.Commands.OCR
	case config.RoleWriting:
		return s.Commands.Writing
	}
	return nil
}

// actionID is "0" for the primary role and the action id otherwise.
func actionID(role config.Role) string {
	if role.Kind == config.RoleAction {
		return strconv.FormatInt(role.ActionID, 10)
	}
	return "0"
}

// needsSelection reports whether role acts on the selected text.
func needsSelection(role config.Role) bool {
	switch role.Kind {
	case config.RolePrimary, config.RoleAction, config.RoleWriting:
		return true
	}
	return false
}
