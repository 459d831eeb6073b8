package secrets

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"passpack/internal/logging"
	"passpack/internal/securefs"
)

const (
	canvasWidth  = 400
	canvasHeight = 100
	canvasMargin = 10

	maxFontSize = 80
	minFontSize = 11
)

// Renderer rasterizes secrets onto a fixed-size monochrome canvas.
type Renderer struct {
	fontPath string
	logger   *slog.Logger
}

// NewRenderer builds a renderer reading its typeface from fontPath. When the
// font cannot be loaded the renderer degrades to a built-in bitmap face
// instead of failing.
func NewRenderer(fontPath string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{fontPath: fontPath, logger: logger}
}

// Render draws the secret centered on the canvas and writes it to the
// ticket's working directory as ticket_<id>_base.png, returning the path.
// Layout is deterministic for a given secret and typeface.
func (r *Renderer) Render(secret, workDir string, ticketID int) (string, error) {
	face, cleanup := r.pickFace(secret)
	defer cleanup()

	bounds, _ := font.BoundString(face, secret)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()

	img := image.NewGray(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((canvasWidth-width)/2) - bounds.Min.X,
			Y: fixed.I((canvasHeight-height)/2) - bounds.Min.Y,
		},
	}
	drawer.DrawString(secret)

	path := filepath.Join(workDir, fmt.Sprintf("ticket_%d_base.png", ticketID))
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, securefs.FileMode)
	if err != nil {
		return "", fmt.Errorf("create base image: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return "", fmt.Errorf("encode base image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close base image: %w", err)
	}
	return path, nil
}

// pickFace returns the largest face whose rendering of secret fits inside
// the canvas minus the margin. When no size fits even at the smallest tried
// size the last computed face is used anyway; rendering is best-effort, not
// a hard failure.
func (r *Renderer) pickFace(secret string) (font.Face, func()) {
	data, err := os.ReadFile(r.fontPath)
	if err != nil {
		r.logger.Warn("font unavailable, using built-in face",
			logging.String("font_path", r.fontPath), logging.Error(err))
		return basicfont.Face7x13, func() {}
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		r.logger.Warn("font unparseable, using built-in face",
			logging.String("font_path", r.fontPath), logging.Error(err))
		return basicfont.Face7x13, func() {}
	}

	var face font.Face
	for size := maxFontSize; size >= minFontSize; size-- {
		candidate, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}
		if face != nil {
			_ = face.Close()
		}
		face = candidate
		bounds, _ := font.BoundString(face, secret)
		width := (bounds.Max.X - bounds.Min.X).Ceil()
		height := (bounds.Max.Y - bounds.Min.Y).Ceil()
		if width < canvasWidth-canvasMargin && height < canvasHeight-canvasMargin {
			break
		}
	}
	if face == nil {
		return basicfont.Face7x13, func() {}
	}
	return face, func() { _ = face.Close() }
}
