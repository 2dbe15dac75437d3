package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/alexanderramin/roadmap/internal/schedule"
)

// PNGName returns the raster preview file name for prefix.
func PNGName(prefix string) string {
	return prefix + ".png"
}

// RenderPNG writes a raster preview of g. Text is not rasterized and
// tooltips are omitted, so the preview shows boxes, arrows and axes only.
func RenderPNG(w io.Writer, g *schedule.Gantt, opts Options) error {
	opts.OmitTooltips = true
	var buf bytes.Buffer
	if err := Render(&buf, g, opts); err != nil {
		return err
	}
	return RasterizePNG(w, buf.Bytes())
}

// RasterizePNG rasterizes an SVG document at its natural viewBox size.
func RasterizePNG(w io.Writer, data []byte) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("parsing svg for raster: %w", err)
	}

	width, height := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("parsing svg for raster: empty viewBox")
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
