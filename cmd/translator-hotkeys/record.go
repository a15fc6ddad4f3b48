package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/TanaroSch/translator-hotkeys/internal/binding"
	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
	"github.com/TanaroSch/translator-hotkeys/internal/termrec"
)

func runRecord(args []string) int {
	fs := flag.NewFlagSet(name+" record", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath(), "settings file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: "+name+" record [-config path] <role>")
		return 2
	}

	role, err := config.ParseRole(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	settings, err := config.LoadWithSecrets(*configPath, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	current, ok := settings.HotkeyFor(role)
	if !ok {
		fmt.Fprintf(os.Stderr, "%v: %s\n", config.ErrUnknownRole, role)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := termrec.RecordTerminal(ctx, os.Stdin, os.Stdout, settings.RoleLabel(role), current)
	return finishRecording(os.Stdout, settings, role, res, err)
}

// finishRecording saves res only when the session ended with an explicit
// finish. Aborted or failed sessions leave the settings untouched.
func finishRecording(out io.Writer, settings *config.Settings, role config.Role, res termrec.Result, err error) int {
	switch {
	case errors.Is(err, termrec.ErrAborted):
		fmt.Fprintf(out, "%s: recording aborted, settings unchanged\n", settings.RoleLabel(role))
		return 1
	case err != nil:
		fmt.Fprintln(out, err)
		return 1
	}
	return saveRecorded(out, settings, role, res.Value)
}

// saveRecorded validates value and stores it as the hotkey of role.
func saveRecorded(out io.Writer, settings *config.Settings, role config.Role, value string) int {
	value = hotkey.Normalize(value)
	switch hotkey.Classify(value) {
	case hotkey.StatusInvalid:
		fmt.Fprintf(out, "%s: %s\n", binding.RejectTitle, binding.RejectMessage(value))
		return 1
	case hotkey.StatusAbsent:
		value = ""
	}

	if err := settings.SetRoleHotkey(role, value); err != nil {
		fmt.Fprintln(out, err)
		return 1
	}
	if err := settings.Save(); err != nil {
		fmt.Fprintf(out, "save settings: %v\n", err)
		return 1
	}
	if value == "" {
		fmt.Fprintf(out, "%s: hotkey cleared\n", settings.RoleLabel(role))
	} else {
		fmt.Fprintf(out, "%s: saved %s\n", settings.RoleLabel(role), value)
	}
	return 0
}
