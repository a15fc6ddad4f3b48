//go:build windows

package ui

import (
	"fmt"
	"log"

	"golang.org/x/sys/windows"
)

// OpenFileInDefaultApp opens filePath with its associated application.
func OpenFileInDefaultApp(filePath string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(filePath)
	if err != nil {
		return fmt.Errorf("invalid path '%s': %w", filePath, err)
	}
	if err := windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		log.Printf("ShellExecute failed for '%s': %v", filePath, err)
		return fmt.Errorf("ShellExecute '%s': %w", filePath, err)
	}
	return nil
}
