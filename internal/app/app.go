// Package app wires the capture, detection, counting, and rendering
// stages into the per-frame pipeline.
package app

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleTimeout is how long without motion before dropping back to
	// the idle capture rate.
	IdleTimeout = 2 * time.Second

	// StableFrames is how many consecutive frames a count must hold
	// before a binding fires.
	StableFrames = 5

	// PluginTimeout bounds a single plugin execution.
	PluginTimeout = 5 * time.Second
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
}

// App owns the per-frame pipeline: capture, landmark detection, finger
// counting, overlay rendering, and count-triggered actions.
type App struct {
	config      Config
	camera      capture.Camera
	motion      *capture.MotionDetector
	detector    detector.Detector
	calibration *counter.Calibration
	frames      *FrameBuffer
	counts      *CountHub
	pluginMgr   *plugin.Manager
	pluginExec  *plugin.Executor
	stability   map[string]*stableCount
	enabled     bool
	mu          sync.RWMutex
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// stableCount tracks how long a hand has held the same count, and the
// last count that fired a binding, to debounce repeated triggers.
type stableCount struct {
	current int
	held    int
	fired   int
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:      config,
		camera:      capture.NewCamera(config.CameraID),
		motion:      capture.NewMotionDetector(motionThreshold),
		calibration: counter.NewCalibration(),
		frames:      NewFrameBuffer(),
		counts:      NewCountHub(),
		pluginMgr:   plugin.NewManager(config.PluginDir),
		pluginExec:  plugin.NewExecutor(PluginTimeout),
		stability:   make(map[string]*stableCount),
		enabled:     true,
	}

	// Try MediaPipe first, fall back to the mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		logrus.Info("Using MediaPipe hand landmark provider")
	} else {
		logrus.Warnf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables counting. While disabled the raw feed
// still flows to the frame buffer.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether counting is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the landmark provider implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
// Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start opens the camera and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline()

	logrus.Info("Counting pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
// Safe to call more than once.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		logrus.Errorf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			logrus.Errorf("Error closing detector: %v", err)
		}
	}

	logrus.Info("Counting pipeline stopped")
}

// Done returns a channel closed when the pipeline exits, whether from
// Stop or from the camera stream ending.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.doneCh
}

// Calibration returns the live threshold store.
func (a *App) Calibration() *counter.Calibration {
	return a.calibration
}

// Frames returns the annotated frame buffer.
func (a *App) Frames() *FrameBuffer {
	return a.frames
}

// Counts returns the count event hub.
func (a *App) Counts() *CountHub {
	return a.counts
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the landmark provider.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
