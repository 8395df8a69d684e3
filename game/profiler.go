package game

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrCaptureCooldown is returned when a capture is requested too soon
var ErrCaptureCooldown = errors.New("capture on cooldown")

// Profiler captures a CPU profile and an execution trace when the viewer
// stalls
type Profiler struct {
	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	captureDuration time.Duration
	profilesDir     string
	logger          *zap.Logger
}

// NewProfiler creates a new profiler writing into dir
func NewProfiler(dir string, cooldown time.Duration, logger *zap.Logger) *Profiler {
	return &Profiler{
		captureCooldown: cooldown,
		captureDuration: 3 * time.Second,
		profilesDir:     dir,
		logger:          logger,
	}
}

// CaptureProfile starts a background capture. It returns immediately.
func (p *Profiler) CaptureProfile(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastCaptureTime) < p.captureCooldown {
		return errors.Wrapf(ErrCaptureCooldown, "last capture was %v ago", time.Since(p.lastCaptureTime))
	}
	if p.isProfiling {
		return errors.New("already profiling")
	}
	if err := os.MkdirAll(p.profilesDir, 0o755); err != nil {
		return errors.Wrapf(err, "create profile dir %s", p.profilesDir)
	}

	p.isProfiling = true
	p.lastCaptureTime = time.Now()
	baseName := fmt.Sprintf("stall-%s-%s", p.lastCaptureTime.Format("20060102-150405"), reason)

	go func() {
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := p.captureCPUProfile(baseName); err != nil {
				p.logger.Warn("cpu profile failed", zap.Error(err))
			}
		}()
		go func() {
			defer wg.Done()
			if err := p.captureTrace(baseName); err != nil {
				p.logger.Warn("execution trace failed", zap.Error(err))
			}
		}()
		wg.Wait()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		p.logger.Info("profile captured",
			zap.String("cpu_profile", filepath.Join(p.profilesDir, baseName+".cpu.prof")),
			zap.Uint64("alloc_kb", m.Alloc/1024),
			zap.Uint32("num_gc", m.NumGC),
		)
	}()

	return nil
}

func (p *Profiler) captureCPUProfile(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".cpu.prof")
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create profile file")
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return errors.Wrap(err, "start cpu profile")
	}
	time.Sleep(p.captureDuration)
	pprof.StopCPUProfile()
	return nil
}

func (p *Profiler) captureTrace(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".trace")
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create trace file")
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return errors.Wrap(err, "start trace")
	}
	time.Sleep(p.captureDuration)
	trace.Stop()
	return nil
}

// IsProfiling returns whether a capture is in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

// FPSMeter averages the frame rate over half-second windows
type FPSMeter struct {
	fps     float64
	frames  int
	elapsed float64
}

// NewFPSMeter creates a meter that reports fps until the first window closes
func NewFPSMeter(fps float64) *FPSMeter {
	return &FPSMeter{fps: fps}
}

// Frame records one frame taking dt seconds. It returns true when a
// window closed and FPS changed.
func (m *FPSMeter) Frame(dt float64) bool {
	m.elapsed += dt
	m.frames++
	if m.elapsed < 0.5 {
		return false
	}
	m.fps = float64(m.frames) / m.elapsed
	m.frames = 0
	m.elapsed = 0
	return true
}

// FPS returns the last measured frame rate
func (m *FPSMeter) FPS() float64 {
	return m.fps
}
