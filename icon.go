// ABOUTME: Runtime-rendered tray icons for dark and light mode.
// ABOUTME: Draws a crescent moon or rayed sun, downscales it, and encodes PNG bytes.

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	iconRenderSize = 128 // oversampled draw size
	trayIconSize   = 64
)

var (
	sunColor  = color.RGBA{R: 0xff, G: 0xc1, B: 0x07, A: 0xff}
	moonColor = color.RGBA{R: 0xe8, G: 0xea, B: 0xf6, A: 0xff}
)

// ModeIcon returns PNG bytes for the tray icon of the given mode.
// The bytes are a pure function of the mode.
func ModeIcon(m Mode) ([]byte, error) {
	var img *image.RGBA
	if m == ModeDark {
		img = renderMoon()
	} else {
		img = renderSun()
	}

	scaled := scaleImage(img, trayIconSize, trayIconSize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("PNG encode: %w", err)
	}
	return buf.Bytes(), nil
}

// renderSun draws a disc with eight rays on a transparent background.
func renderSun() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconRenderSize, iconRenderSize))
	c := float64(iconRenderSize) / 2

	fillCircle(img, c, c, c*0.42, sunColor)

	// Eight rays at 45-degree steps, drawn as thick segments.
	for i := 0; i < 8; i++ {
		angle := float64(i) * math.Pi / 4
		x0 := c + math.Cos(angle)*c*0.58
		y0 := c + math.Sin(angle)*c*0.58
		x1 := c + math.Cos(angle)*c*0.92
		y1 := c + math.Sin(angle)*c*0.92
		drawSegment(img, x0, y0, x1, y1, c*0.08, sunColor)
	}
	return img
}

// renderMoon draws a crescent: a full disc with a shifted disc cut out.
func renderMoon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconRenderSize, iconRenderSize))
	c := float64(iconRenderSize) / 2
	r := c * 0.8

	fillCircle(img, c, c, r, moonColor)
	cutCircle(img, c+r*0.55, c-r*0.35, r*0.85)
	return img
}

// fillCircle fills the disc at (cx, cy) with the given radius.
func fillCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// cutCircle clears the disc at (cx, cy) back to transparent.
func cutCircle(img *image.RGBA, cx, cy, r float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
}

// drawSegment stamps discs along the segment for a thick line.
func drawSegment(img *image.RGBA, x0, y0, x1, y1, thickness float64, col color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	length := math.Hypot(dx, dy)
	steps := int(length) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fillCircle(img, x0+dx*t, y0+dy*t, thickness, col)
	}
}

// scaleImage downscales src to the given size.
func scaleImage(src image.Image, width, height int) image.Image {
	srcBounds := src.Bounds()
	if srcBounds.Dx() <= width && srcBounds.Dy() <= height {
		return src // no scaling needed
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, srcBounds, xdraw.Over, nil)
	return dst
}
