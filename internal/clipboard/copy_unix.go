//go:build !windows

package clipboard

import (
	"errors"
	"log"
	"os/exec"
	"runtime"
)

// simulatePlatformCopy sends the copy shortcut to the focused window.
func simulatePlatformCopy() error {
	if runtime.GOOS == "darwin" {
		script := `tell application "System Events" to keystroke "c" using command down`
		if output, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
			log.Printf("osascript copy failed: %v\nOutput: %s", err, string(output))
			return err
		}
		return nil
	}

	// xdotool on X11, wtype on Wayland.
	xdotoolErr := exec.Command("xdotool", "key", "--clearmodifiers", "ctrl+c").Run()
	if xdotoolErr == nil {
		return nil
	}
	log.Printf("xdotool copy failed (is it installed?): %v", xdotoolErr)

	wtypeErr := exec.Command("wtype", "-M", "ctrl", "-P", "c", "-m", "ctrl").Run()
	if wtypeErr == nil {
		return nil
	}
	log.Printf("wtype copy failed (is it installed?): %v", wtypeErr)

	return errors.Join(xdotoolErr, wtypeErr)
}
