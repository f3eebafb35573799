package display

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"covid-visualizer/charts"
	"covid-visualizer/config"
	"covid-visualizer/utils"
)

// Displayer presents one chart. Show returns once the chart has been
// dismissed (window) or persisted (file, memory).
type Displayer interface {
	Show(ctx context.Context, a *charts.Artifact) error
	Close() error
}

// New picks a Displayer for cfg.DisplayMode. A window request on a machine
// without Chrome or Chromium degrades to writing files.
func New(cfg *config.Config, logger *utils.Logger) (Displayer, error) {
	switch cfg.DisplayMode {
	case config.DisplayWindow:
		bin := findChromeBinary(cfg.ChromeBin)
		if bin == "" {
			logger.Warn("[display] No Chrome/Chromium binary found, saving charts under %s instead", cfg.ChartOutputDir)
			return NewFiles(cfg.ChartOutputDir, logger)
		}
		return NewBrowser(bin, cfg.ChartOutputDir, logger)
	case config.DisplayFile:
		return NewFiles(cfg.ChartOutputDir, logger)
	case config.DisplayNone:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("display: unknown mode %q (want %s, %s or %s)",
			cfg.DisplayMode, config.DisplayWindow, config.DisplayFile, config.DisplayNone)
	}
}

// Files writes each chart to <dir>/<name>.png. A name shown twice gets a
// numeric suffix instead of overwriting the earlier file.
type Files struct {
	dir    string
	logger *utils.Logger
	names  *utils.NameSet

	mu    sync.Mutex
	paths []string
}

// NewFiles creates dir if needed.
func NewFiles(dir string, logger *utils.Logger) (*Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("display: create output dir: %w", err)
	}
	return &Files{dir: dir, logger: logger, names: utils.NewNameSet()}, nil
}

func (f *Files) Show(ctx context.Context, a *charts.Artifact) error {
	path, err := f.write(ctx, a)
	if err != nil {
		return err
	}
	f.logger.Info("[display] Saved %q to %s", a.Title, path)
	return nil
}

func (f *Files) write(ctx context.Context, a *charts.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := a.Name
	for i := 2; !f.names.Add(name); i++ {
		name = fmt.Sprintf("%s_%d", a.Name, i)
	}

	path := filepath.Join(f.dir, name+".png")
	if err := os.WriteFile(path, a.PNG, 0644); err != nil {
		return "", fmt.Errorf("display: write %s: %w", path, err)
	}

	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	return path, nil
}

// Paths lists the files written so far, in order.
func (f *Files) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func (f *Files) Close() error { return nil }

// Memory keeps every shown chart. It backs DISPLAY_MODE=none and tests.
type Memory struct {
	mu        sync.Mutex
	artifacts []*charts.Artifact
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Show(ctx context.Context, a *charts.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.artifacts = append(m.artifacts, a)
	m.mu.Unlock()
	return nil
}

// Artifacts returns the charts shown so far, in order.
func (m *Memory) Artifacts() []*charts.Artifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*charts.Artifact(nil), m.artifacts...)
}

func (m *Memory) Close() error { return nil }
