//go:build windows

package app

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// detach keeps launched helpers off the daemon's console.
func detach(c *exec.Cmd) {
	c.SysProcAttr = &windows.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS,
	}
}
