package assets

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/flakesphere/internal/config"
	"github.com/Faultbox/flakesphere/internal/engine/texture"
)

func hdrBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := texture.NewHDRImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, mgl32.Vec3{1, 0.8, 0.6})
		}
	}
	var buf bytes.Buffer
	if err := texture.EncodeHDR(&buf, img); err != nil {
		t.Fatalf("EncodeHDR: %v", err)
	}
	return buf.Bytes()
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Environment = "env.hdr"
	cfg.CubeSize = 16
	cfg.PrefilterSamples = 8
	cfg.Flakes.Size = 32
	cfg.Flakes.Count = 10
	return cfg
}

func TestManagerPriority(t *testing.T) {
	low := fstest.MapFS{"a.txt": {Data: []byte("low")}, "b.txt": {Data: []byte("only low")}}
	high := fstest.MapFS{"a.txt": {Data: []byte("high")}}

	m := NewManager(low)
	m.AddSource(high)

	data, err := m.Load("a.txt")
	if err != nil || string(data) != "high" {
		t.Errorf("expected 'high', got %q (%v)", data, err)
	}
	data, err = m.Load("b.txt")
	if err != nil || string(data) != "only low" {
		t.Errorf("expected fallback to lower source, got %q (%v)", data, err)
	}

	if _, err := m.Load("missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestManagerCache(t *testing.T) {
	m := NewManager(fstest.MapFS{"a.txt": {Data: []byte("x")}})

	for i := 0; i < 3; i++ {
		if _, err := m.Load("a.txt"); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	hits, misses := m.cache.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected 2 hits 1 miss, got %d/%d", hits, misses)
	}

	m.Close()
	hits, misses = m.cache.Stats()
	if hits != 0 || misses != 0 {
		t.Error("Close should reset the cache")
	}
	if _, err := m.Load("a.txt"); err == nil {
		t.Error("closed manager should not find files")
	}
}

func TestLoaderLoad(t *testing.T) {
	files := NewManager(fstest.MapFS{"env.hdr": {Data: hdrBytes(t, 32, 16)}})
	env, err := NewLoader(testConfig(), files).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if env.Panorama.Width != 32 || env.Panorama.Height != 16 {
		t.Errorf("unexpected panorama size %dx%d", env.Panorama.Width, env.Panorama.Height)
	}
	if env.EnvMap.Size() != 16 || len(env.EnvMap.Levels) != 2 {
		t.Errorf("expected 16px cube with 2 levels, got %d/%d", env.EnvMap.Size(), len(env.EnvMap.Levels))
	}
	if env.NormalMap == nil || env.NormalMap.Repeat != (mgl32.Vec2{10, 6}) {
		t.Fatalf("unexpected normal map %+v", env.NormalMap)
	}
	if env.NormalMap.WrapS != texture.WrapRepeat {
		t.Error("normal map must repeat")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader(testConfig(), NewManager(fstest.MapFS{}))
	if _, err := l.Load(context.Background()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLoaderCorruptFile(t *testing.T) {
	l := NewLoader(testConfig(), NewManager(fstest.MapFS{"env.hdr": {Data: []byte("garbage")}}))
	if _, err := l.Load(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoaderStart(t *testing.T) {
	files := NewManager(fstest.MapFS{"env.hdr": {Data: hdrBytes(t, 16, 8)}})
	ch := NewLoader(testConfig(), files).Start(context.Background())

	select {
	case res := <-ch:
		if res.Err != nil || res.Env == nil {
			t.Fatalf("unexpected result %+v", res)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("loader did not complete")
	}

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after the single result")
	}
}

func TestLoaderStartCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := NewManager(fstest.MapFS{"env.hdr": {Data: hdrBytes(t, 16, 8)}})
	res := <-NewLoader(testConfig(), files).Start(ctx)
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", res.Err)
	}
}

func TestConfigFrom(t *testing.T) {
	c := config.Default().Assets
	c.FlakesSeed = 9
	cfg := ConfigFrom(c)

	if cfg.Environment != "cayley_interior_1k.hdr" || cfg.CubeSize != 256 || cfg.PrefilterSamples != 64 {
		t.Errorf("unexpected mapping %+v", cfg)
	}
	if cfg.Flakes.Seed != 9 || cfg.Flakes.OrangePeel != 0.03 {
		t.Errorf("unexpected flakes options %+v", cfg.Flakes)
	}

	c.FlakesSeed = 0
	if ConfigFrom(c).Flakes.Seed == 0 {
		t.Error("zero seed should be replaced")
	}
}
