//go:build !windows

package ui

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

func (n *NotificationManager) platformNotify(title, message string) error {
	if err := beeep.Notify(title, message, n.iconPath(".png")); err != nil {
		return fmt.Errorf("beeep: %w", err)
	}
	return nil
}
