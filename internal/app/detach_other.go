//go:build !windows

package app

import (
	"os/exec"
	"syscall"
)

// detach starts helpers in their own process group so a terminal signal
// aimed at the daemon does not reach them.
func detach(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
