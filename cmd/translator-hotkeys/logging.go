package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// setupLogging appends to logPath, or keeps stderr if it is empty. The
// returned file must be closed by the caller.
func setupLogging(logPath string) (*os.File, error) {
	if logPath == "" {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(logPath), err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("=== LOG INITIALIZED ===")
	return f, nil
}
