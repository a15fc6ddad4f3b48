package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

func runCheck(args []string) int {
	fs := flag.NewFlagSet(name+" check", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath(), "settings file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() > 0 {
		return checkHotkeys(os.Stdout, fs.Args())
	}
	settings, err := config.LoadWithSecrets(*configPath, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return checkSettings(os.Stdout, settings)
}

// checkHotkeys prints the status of each hotkey and returns 1 if any is
// invalid.
func checkHotkeys(out io.Writer, specs []string) int {
	code := 0
	for _, s := range specs {
		status := hotkey.Classify(s)
		fmt.Fprintf(out, "%-32q %s\n", s, status)
		if status == hotkey.StatusInvalid {
			code = 1
		}
	}
	return code
}

func checkSettings(out io.Writer, settings *config.Settings) int {
	code := 0
	for _, role := range settings.Roles() {
		hk, _ := settings.HotkeyFor(role)
		status := hotkey.Classify(hk)
		fmt.Fprintf(out, "%-20s %-32q %s\n", settings.RoleLabel(role), hk, status)
		if status == hotkey.StatusInvalid {
			code = 1
		}
	}
	return code
}
