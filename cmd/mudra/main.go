package main

import (
	"flag"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	cameraID := flag.Int("camera", 0, "Camera device ID")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	headless := flag.Bool("headless", false, "Run without video windows, controlled from the system tray")
	pluginDir := flag.String("plugins", "", "Plugin directory (default ~/.mudra/plugins)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		logrus.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logrus.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		logrus.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	plugins := *pluginDir
	if plugins == "" {
		plugins = filepath.Join(dataDir, "plugins")
	}

	a := app.New(app.Config{
		Store:     st,
		PluginDir: plugins,
		CameraID:  *cameraID,
	})

	if err := a.DiscoverPlugins(); err != nil {
		logrus.Warnf("Plugin discovery failed: %v", err)
	} else {
		logrus.Infof("Discovered %d plugins in %s", len(a.PluginManager().List()), plugins)
	}

	if err := a.Start(); err != nil {
		logrus.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	srv := server.New(server.Config{
		StaticDir:   findWebDir(),
		Store:       st,
		Calibration: a.Calibration(),
		Frames:      a.Frames(),
		Counts:      a.Counts(),
		Plugins:     a.PluginManager(),
	})

	go func() {
		logrus.Infof("Starting server on %s", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			logrus.Errorf("Server failed: %v", err)
		}
	}()

	// Stop the pipeline on SIGINT/SIGTERM so the camera is released
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logrus.Infof("Received %v, shutting down", sig)
		a.Stop()
		os.Exit(0)
	}()

	if *headless {
		runHeadless(a, *addr)
		return
	}

	// The video windows must run on the main thread
	if err := a.RunWindowed(); err != nil {
		logrus.Fatalf("Display loop failed: %v", err)
	}
}

// runHeadless blocks on the system tray, relaying count events to the
// tray menu as they come off the pipeline.
func runHeadless(a *app.App, addr string) {
	t := tray.New()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		logrus.Infof("Counting enabled: %v", enabled)
	})
	t.OnSettings(func() {
		url := settingsURL(addr)
		logrus.Infof("Opening settings at %s", url)
		if err := openBrowser(url); err != nil {
			logrus.Errorf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(func() {
		a.Stop()
	})

	events, cancel := a.Counts().Subscribe()
	defer cancel()
	go func() {
		for event := range events {
			t.SetLastCount(event.Handedness, event.Count)
		}
	}()

	t.Run()
}

// settingsURL turns a listen address like ":8080" or "0.0.0.0:8080"
// into a URL a local browser can reach.
func settingsURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// openBrowser opens the URL with the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
