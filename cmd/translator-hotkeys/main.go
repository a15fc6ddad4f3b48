package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/TanaroSch/translator-hotkeys/internal/app"
	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey/native"
	"github.com/TanaroSch/translator-hotkeys/internal/resources"
	"github.com/TanaroSch/translator-hotkeys/internal/ui"
)

// https://goreleaser.com/cookbooks/using-main.version/
var (
	name    = "translator-hotkeys"
	version = "dev"
	date    string
	commit  string
)

// takes precedence over the -config default
const configEnvVar = "TRANSLATOR_HOTKEYS_CONFIG"

func defaultConfigPath() string {
	if p := os.Getenv(configEnvVar); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(dir, name, "settings.json")
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: "+name+` [COMMAND] [OPTIONS]

Binds the translator hotkeys configured in the settings file and keeps them in
sync while the file changes (hot-reload supported).

COMMANDS:

  (none)                    run the tray daemon
  record [-config path] <role>
                            record a hotkey for role in the terminal
  check  [-config path] [hotkey...]
                            validate hotkeys, or every configured role
  version                   print version and exit

DAEMON OPTIONS:

  -config path   settings file (default $`+configEnvVar+` or the user config dir)
  -log path      append log output to path instead of stderr
  -dry-run       bind in memory only, without registering system hotkeys`)
}

func main() {
	log.SetFlags(0)

	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var code int
	switch cmd {
	case "":
		code = runDaemon(args)
	case "record":
		code = runRecord(args)
	case "check":
		code = runCheck(args)
	case "version":
		fmt.Printf("%s %s, built on %s (commit: %s)\n", name, version, date, commit)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		code = 2
	}
	os.Exit(code)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = usage
	configPath := fs.String("config", defaultConfigPath(), "settings file")
	logPath := fs.String("log", "", "log file")
	dryRun := fs.Bool("dry-run", false, "bind in memory only")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		usage()
		return 2
	}

	logFile, err := setupLogging(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close() //nolint:errcheck
	}

	log.Printf("%s %s starting...", name, version)

	// Startup settings only decide the notification switch; the app
	// performs the real load.
	useNotifications := true
	if s, err := config.LoadWithSecrets(*configPath, nil); err == nil {
		useNotifications = s.UseNotifications
	}

	icon, err := trayIcon()
	if err != nil {
		log.Printf("Icon unavailable: %v", err)
	}
	notifier := ui.InitGlobalNotifications(useNotifications, "Translator Hotkeys", icon)
	defer notifier.Close()

	application := app.New(app.Options{
		ConfigPath: *configPath,
		Backend:    selectBackend(*dryRun),
		Notifier:   notifier,
		Secrets:    config.NewKeyringStore(config.DefaultKeyringService),
		Watch:      true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		// A broken settings file was already reported; keep running so the
		// watcher can pick up the fix.
		log.Printf("Startup: %v", err)
	}

	tray := ui.NewSystrayManager(ctx, application, version, icon, cancel)

	// Handle graceful shutdown on Ctrl+C
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-interrupt:
			log.Println("Exiting...")
			cancel()
			tray.Quit()
		case <-ctx.Done():
		}
	}()

	tray.Run()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
		return 1
	}
	log.Println("Exited.")
	return 0
}

func trayIcon() ([]byte, error) {
	if runtime.GOOS == "windows" {
		return resources.GetIcon()
	}
	return resources.GetPNG()
}

// selectBackend returns the native backend, or the in-memory one for dry
// runs and display servers without global shortcuts.
func selectBackend(dryRun bool) hotkey.Backend {
	if dryRun {
		log.Println("Dry run: hotkeys are bound in memory only")
		return hotkey.NewMemoryBackend()
	}
	b, err := native.NewBackend()
	if err != nil {
		log.Printf("WARNING: %v; falling back to in-memory bindings", err)
		return hotkey.NewMemoryBackend()
	}
	return b
}
