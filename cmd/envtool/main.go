// envtool inspects and bakes the demo's environment assets offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/flakesphere/internal/config"
	"github.com/Faultbox/flakesphere/internal/engine/texture"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "bake":
		cmdBake(args)
	case "flakes":
		cmdFlakes(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`envtool - environment asset utility

Usage:
  envtool <command> [options]

Commands:
  info <file.hdr>                    Show panorama information
  bake [options] <file.hdr> <outdir> Write prefiltered cube faces as PNG
  flakes [options] <out.png>         Write the flakes normal map
  config [path]                      Write the default config file

Examples:
  envtool info textures/cayley_interior_1k.hdr
  envtool bake -size 128 textures/cayley_interior_1k.hdr ./baked
  envtool flakes -seed 7 flakes.png`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func readHDR(path string) *texture.HDRImage {
	data, err := os.ReadFile(path)
	if err != nil {
		fail("%v", err)
	}
	img, err := texture.DecodeHDR(data)
	if err != nil {
		fail("%s: %v", path, err)
	}
	return img
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: envtool info <file.hdr>")
		os.Exit(1)
	}

	img := readHDR(args[0])
	maxLum, meanLum := img.Stats()

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Size:       %dx%d\n", img.Width, img.Height)
	fmt.Printf("Exposure:   %g\n", img.Exposure)
	fmt.Printf("Gamma:      %g\n", img.Gamma)
	fmt.Printf("Luminance:  max %.3f, mean %.3f\n", maxLum, meanLum)
	fmt.Printf("Mip levels: %d (cube 256, min 8)\n", texture.MipCount(256, 8))
}

func cmdBake(args []string) {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	size := fs.Int("size", 256, "cube face size")
	samples := fs.Int("samples", 64, "GGX samples per texel")
	minSize := fs.Int("min", 8, "smallest mip size")
	exposure := fs.Float64("exposure", 1, "preview exposure")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: envtool bake [options] <file.hdr> <outdir>")
		os.Exit(1)
	}
	src, outDir := fs.Arg(0), fs.Arg(1)

	pano := readHDR(src)
	start := time.Now()
	ctx := context.Background()

	cube, err := texture.EquirectToCube(ctx, pano, *size)
	if err != nil {
		fail("%v", err)
	}
	pre, err := texture.Prefilter(ctx, cube, texture.PrefilterOptions{Samples: *samples, MinSize: *minSize})
	if err != nil {
		fail("%v", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fail("%v", err)
	}
	if err := writePNG(filepath.Join(outDir, "panorama.png"), pano.PanoramaImage(float32(*exposure))); err != nil {
		fail("%v", err)
	}
	count := 1
	for i := range pre.Levels {
		level := &pre.Levels[i]
		for f, name := range texture.FaceNames {
			path := filepath.Join(outDir, fmt.Sprintf("mip%d_%s.png", i, name))
			if err := writePNG(path, level.FaceImage(f, float32(*exposure))); err != nil {
				fail("%v", err)
			}
			count++
		}
		fmt.Printf("  mip %d: %dx%d roughness %.2f\n", i, level.Size, level.Size, level.Roughness)
	}
	fmt.Printf("Wrote %d files to %s in %v\n", count, outDir, time.Since(start).Round(time.Millisecond))
}

func cmdFlakes(args []string) {
	fs := flag.NewFlagSet("flakes", flag.ExitOnError)
	opts := texture.DefaultFlakesOptions()
	fs.IntVar(&opts.Size, "size", opts.Size, "image size")
	fs.IntVar(&opts.Count, "count", opts.Count, "number of flakes")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	fs.Float64Var(&opts.OrangePeel, "peel", opts.OrangePeel, "orange peel strength")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: envtool flakes [options] <out.png>")
		os.Exit(1)
	}
	if opts.Size <= 0 {
		fail("invalid size %d", opts.Size)
	}
	if err := writePNG(fs.Arg(0), texture.NewFlakes(opts)); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %s (%dx%d, %d flakes)\n", fs.Arg(0), opts.Size, opts.Size, opts.Count)
}

func cmdConfig(args []string) {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.Default().SaveTo(path); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
