package hotkey

import "testing"

func TestDetectDisplayServer(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name     string
		goos     string
		vars     map[string]string
		expected DisplayServer
	}{
		{"windows", "windows", nil, DisplayServerWindows},
		{"darwin", "darwin", map[string]string{"DISPLAY": ":0"}, DisplayServerMacOS},
		{"x11", "linux", map[string]string{"DISPLAY": ":0"}, DisplayServerX11},
		{"wayland wins over xwayland", "linux", map[string]string{"DISPLAY": ":0", "WAYLAND_DISPLAY": "wayland-0"}, DisplayServerWayland},
		{"session type", "linux", map[string]string{"XDG_SESSION_TYPE": "wayland"}, DisplayServerWayland},
		{"headless", "linux", nil, DisplayServerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectDisplayServer(tt.goos, env(tt.vars)); got != tt.expected {
				t.Fatalf("detectDisplayServer = %s, expected %s", got, tt.expected)
			}
		})
	}

	if DisplayServerWayland.SupportsGlobalShortcuts() || DisplayServerUnknown.SupportsGlobalShortcuts() {
		t.Fatal("Wayland and unknown display servers cannot grab global keys")
	}
	if !DisplayServerX11.SupportsGlobalShortcuts() {
		t.Fatal("X11 supports global keys")
	}
}
