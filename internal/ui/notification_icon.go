package ui

import (
	"log"
	"os"
	"path/filepath"
)

// iconPath writes the embedded icon to a temporary file on first use and
// returns its path, or "" when no icon is available.
func (n *NotificationManager) iconPath(ext string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.iconFile != "" || len(n.embeddedIcon) == 0 {
		return n.iconFile
	}
	f, err := os.CreateTemp("", "translator-hotkeys-icon-*"+ext)
	if err != nil {
		log.Printf("Error writing temporary icon: %v", err)
		return ""
	}
	defer f.Close()
	if _, err := f.Write(n.embeddedIcon); err != nil {
		log.Printf("Error writing temporary icon: %v", err)
		_ = os.Remove(f.Name())
		return ""
	}
	if abs, err := filepath.Abs(f.Name()); err == nil {
		n.iconFile = abs
	} else {
		n.iconFile = f.Name()
	}
	return n.iconFile
}

// Close removes the temporary icon file.
func (n *NotificationManager) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.iconFile == "" {
		return
	}
	if err := os.Remove(n.iconFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing temporary icon file %s: %v", n.iconFile, err)
	}
	n.iconFile = ""
}
