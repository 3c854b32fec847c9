// Package style loads the presentation style sheet applied to the window
// before the first frame: title, clear color and cursor visibility.
package style

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Cursor visibility values.
const (
	CursorVisible = "visible"
	CursorHidden  = "hidden"
)

// Style is the decoded style sheet.
type Style struct {
	Title      string  `yaml:"title"`
	Background string  `yaml:"background"` // #RGB, #RRGGBB or #RRGGBBAA
	Opacity    float32 `yaml:"opacity"`    // Multiplies the background alpha
	Cursor     string  `yaml:"cursor"`
}

// Default returns the style used when a sheet leaves fields empty.
func Default() *Style {
	return &Style{
		Title:      "flakesphere",
		Background: "#000000",
		Opacity:    1,
		Cursor:     CursorVisible,
	}
}

// Parse decodes a style sheet over the defaults and validates it.
func Parse(data []byte) (*Style, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing style: %w", err)
	}
	// SDL expects composed UTF-8 titles.
	s.Title = norm.NFC.String(strings.TrimSpace(s.Title))
	if s.Title == "" {
		s.Title = Default().Title
	}
	if _, err := ParseColor(s.Background); err != nil {
		return nil, err
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return nil, fmt.Errorf("style opacity %v out of range [0,1]", s.Opacity)
	}
	switch s.Cursor {
	case CursorVisible, CursorHidden:
	default:
		return nil, fmt.Errorf("unknown cursor mode %q", s.Cursor)
	}
	return s, nil
}

// Load reads and parses the style sheet at path. It stops early when ctx is
// done.
func Load(ctx context.Context, path string) (*Style, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(data)
}

// Result is delivered once by Fetch.
type Result struct {
	Style *Style
	Err   error
}

// Fetch loads the style sheet in the background.
func Fetch(ctx context.Context, path string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		s, err := Load(ctx, path)
		ch <- Result{Style: s, Err: err}
	}()
	return ch
}

// Await blocks until the fetch completes or ctx is done.
func Await(ctx context.Context, ch <-chan Result) (*Style, error) {
	select {
	case res := <-ch:
		return res.Style, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ClearColor returns the background as RGBA in [0,1] with Opacity applied.
func (s *Style) ClearColor() [4]float32 {
	c, err := ParseColor(s.Background)
	if err != nil {
		c = [4]float32{0, 0, 0, 1}
	}
	c[3] *= s.Opacity
	return c
}

// CursorVisible reports whether the pointer should be shown.
func (s *Style) CursorVisible() bool {
	return s.Cursor != CursorHidden
}

// ParseColor parses #RGB, #RRGGBB and #RRGGBBAA hex colors.
func ParseColor(hex string) ([4]float32, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return [4]float32{}, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [4]float32{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return [4]float32{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
