package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/TanaroSch/translator-hotkeys/internal/app"
	"github.com/TanaroSch/translator-hotkeys/internal/binding"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

const dialogTitle = "Translator Hotkeys"

// ErrCanceled is returned when the user dismisses a dialog.
var ErrCanceled = zenity.ErrCanceled

// PromptHotkey asks for a new hotkey for the role named label. An empty
// answer clears the role. Modifier-only answers are refused and asked again.
func PromptHotkey(label, current string) (string, error) {
	prompt := fmt.Sprintf("Hotkey for %s\n(e.g. CommandOrControl+Shift+T, empty to clear)", label)
	for {
		value, err := zenity.Entry(prompt,
			zenity.Title(dialogTitle+" - Change Hotkey"),
			zenity.EntryText(current),
		)
		if err != nil {
			return "", err
		}
		value = hotkey.Normalize(value)
		if hotkey.Classify(value) != hotkey.StatusInvalid {
			return value, nil
		}
		log.Printf("Rejected hotkey '%s' for %s", value, label)
		if err := zenity.Error(binding.RejectMessage(value),
			zenity.Title(binding.RejectTitle),
			zenity.ErrorIcon,
		); err != nil && !errors.Is(err, zenity.ErrCanceled) {
			return "", err
		}
		current = value
	}
}

// FormatReport renders one line per role.
func FormatReport(report []app.RoleStatus) string {
	var b strings.Builder
	for _, st := range report {
		hk := st.Hotkey
		if hk == "" {
			hk = "-"
		}
		state := "not set"
		switch {
		case st.Registered:
			state = "active"
		case st.Err != nil:
			state = "failed: " + st.Err.Error()
		case st.Status == hotkey.StatusInvalid:
			state = "invalid"
		case st.Status == hotkey.StatusValid:
			state = "inactive"
		}
		fmt.Fprintf(&b, "%s: %s (%s)\n", st.Label, hk, state)
	}
	return b.String()
}

// ShowBindingReport lists the binding state of every role.
func ShowBindingReport(report []app.RoleStatus) {
	text := FormatReport(report)
	if text == "" {
		text = "No hotkeys configured."
	}
	if err := zenity.Info(text, zenity.Title(dialogTitle+" - Bindings"), zenity.InfoIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Error showing binding report: %v", err)
	}
}

// ShowChangeSummary shows the last settings change.
func ShowChangeSummary(summary string) {
	if err := zenity.Info(summary, zenity.Title(dialogTitle+" - Last Settings Change"), zenity.InfoIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Error showing change summary: %v", err)
	}
}
