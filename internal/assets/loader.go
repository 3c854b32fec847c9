package assets

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/flakesphere/internal/config"
	"github.com/Faultbox/flakesphere/internal/engine/texture"
	"github.com/Faultbox/flakesphere/internal/logger"
)

// Config describes what the loader produces.
type Config struct {
	Environment      string // File name of the HDR panorama
	CubeSize         int
	PrefilterSamples int
	MinCubeSize      int
	Flakes           texture.FlakesOptions
	FlakesRepeat     mgl32.Vec2
}

// DefaultConfig returns the demo's environment settings.
func DefaultConfig() Config {
	return Config{
		Environment:      "cayley_interior_1k.hdr",
		CubeSize:         256,
		PrefilterSamples: 64,
		MinCubeSize:      8,
		Flakes:           texture.DefaultFlakesOptions(),
		FlakesRepeat:     mgl32.Vec2{10, 6},
	}
}

// ConfigFrom maps the file config onto loader settings. A zero flakes seed
// is replaced with a time based one.
func ConfigFrom(c config.AssetsConfig) Config {
	cfg := DefaultConfig()
	cfg.Environment = c.Environment
	cfg.CubeSize = c.CubeSize
	cfg.PrefilterSamples = c.PrefilterSamples
	cfg.Flakes.OrangePeel = c.OrangePeel
	cfg.Flakes.Seed = c.FlakesSeed
	if cfg.Flakes.Seed == 0 {
		cfg.Flakes.Seed = time.Now().UnixNano()
	}
	return cfg
}

// Environment is everything the paint material needs from disk.
type Environment struct {
	Panorama  *texture.HDRImage
	EnvMap    *texture.CubeMap // Prefiltered, level i has roughness i/(n-1)
	NormalMap *texture.Texture2D
}

// Result is delivered once by Start.
type Result struct {
	Env *Environment
	Err error
}

// Loader prepares the Environment from a Manager.
type Loader struct {
	cfg   Config
	files *Manager
}

// NewLoader creates a loader reading through files.
func NewLoader(cfg Config, files *Manager) *Loader {
	return &Loader{cfg: cfg, files: files}
}

// NewDirLoader creates a loader reading from a directory on disk.
func NewDirLoader(cfg Config, dir string) *Loader {
	return NewLoader(cfg, NewManager(os.DirFS(dir)))
}

// Start runs Load in the background. The returned channel receives exactly
// one Result and is then closed.
func (l *Loader) Start(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		env, err := l.Load(ctx)
		ch <- Result{Env: env, Err: err}
	}()
	return ch
}

// Load decodes and prefilters the environment while the flakes normal map
// is generated in parallel.
func (l *Loader) Load(ctx context.Context) (*Environment, error) {
	log := logger.Named("assets")
	start := time.Now()
	env := &Environment{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := l.files.Load(l.cfg.Environment)
		if err != nil {
			return fmt.Errorf("fetching environment: %w", err)
		}
		pano, err := texture.DecodeHDR(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", l.cfg.Environment, err)
		}
		log.Debug("environment decoded",
			zap.String("file", l.cfg.Environment),
			zap.Int("width", pano.Width),
			zap.Int("height", pano.Height))

		cube, err := texture.EquirectToCube(gctx, pano, l.cfg.CubeSize)
		if err != nil {
			return fmt.Errorf("building cube map: %w", err)
		}
		pre, err := texture.Prefilter(gctx, cube, texture.PrefilterOptions{
			Samples: l.cfg.PrefilterSamples,
			MinSize: l.cfg.MinCubeSize,
		})
		if err != nil {
			return fmt.Errorf("prefiltering cube map: %w", err)
		}
		env.Panorama = pano
		env.EnvMap = pre
		return nil
	})
	g.Go(func() error {
		env.NormalMap = texture.NewFlakesTexture(l.cfg.Flakes, l.cfg.FlakesRepeat)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("environment ready",
		zap.Int("cube_size", env.EnvMap.Size()),
		zap.Int("mip_levels", len(env.EnvMap.Levels)),
		zap.Duration("took", time.Since(start)))
	return env, nil
}
