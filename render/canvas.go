package render

import (
	"math"
)

// RGB is a color with channels in 0..1.
type RGB struct {
	R, G, B float64
}

// Canvas is a raw RGB24 pixel buffer, row-major, three bytes per pixel.
type Canvas struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewCanvas allocates a black canvas of the given dimensions.
func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Canvas{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Fill paints every pixel with c.
func (c *Canvas) Fill(col RGB) {
	r, g, b := col.bytes()
	for i := 0; i < len(c.Pix); i += 3 {
		c.Pix[i] = r
		c.Pix[i+1] = g
		c.Pix[i+2] = b
	}
}

// Set writes a pixel, ignoring out-of-bounds coordinates.
func (c *Canvas) Set(x, y int, col RGB) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	i := (y*c.Width + x) * 3
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = col.bytes()
}

// Blend mixes col into the existing pixel with the given alpha.
func (c *Canvas) Blend(x, y int, col RGB, alpha float64) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	i := (y*c.Width + x) * 3
	c.Pix[i] = blendByte(c.Pix[i], col.R, alpha)
	c.Pix[i+1] = blendByte(c.Pix[i+1], col.G, alpha)
	c.Pix[i+2] = blendByte(c.Pix[i+2], col.B, alpha)
}

// Add accumulates col additively, saturating at white. Used for glow.
func (c *Canvas) Add(x, y int, col RGB, alpha float64) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height || alpha <= 0 {
		return
	}
	i := (y*c.Width + x) * 3
	c.Pix[i] = addByte(c.Pix[i], col.R*alpha)
	c.Pix[i+1] = addByte(c.Pix[i+1], col.G*alpha)
	c.Pix[i+2] = addByte(c.Pix[i+2], col.B*alpha)
}

// FillRect paints an axis-aligned rectangle, clipped to the canvas.
func (c *Canvas) FillRect(x0, y0, x1, y1 int, col RGB) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y, col)
		}
	}
}

// FillCircle paints a filled disc.
func (c *Canvas) FillCircle(cx, cy, radius float64, col RGB) {
	if radius <= 0 {
		c.Set(int(cx), int(cy), col)
		return
	}
	r2 := radius * radius
	for y := int(cy - radius); y <= int(cy+radius); y++ {
		for x := int(cx - radius); x <= int(cx+radius); x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				c.Set(x, y, col)
			}
		}
	}
}

// AddCircle accumulates a filled disc additively with the given alpha.
func (c *Canvas) AddCircle(cx, cy, radius float64, col RGB, alpha float64) {
	if radius <= 0 {
		c.Add(int(cx), int(cy), col, alpha)
		return
	}
	r2 := radius * radius
	for y := int(cy - radius); y <= int(cy+radius); y++ {
		for x := int(cx - radius); x <= int(cx+radius); x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				c.Add(x, y, col, alpha)
			}
		}
	}
}

// Line draws a straight segment with the given thickness by stamping
// discs along the path.
func (c *Canvas) Line(x0, y0, x1, y1, thickness float64, col RGB) {
	dx := x1 - x0
	dy := y1 - y0
	length := math.Hypot(dx, dy)
	if length < 1 {
		c.FillCircle(x0, y0, thickness/2, col)
		return
	}
	steps := int(length) + 1
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := x0 + dx*f
		y := y0 + dy*f
		if thickness <= 1 {
			c.Set(int(x), int(y), col)
		} else {
			c.FillCircle(x, y, thickness/2, col)
		}
	}
}

// Polyline strokes consecutive segments through the given points.
func (c *Canvas) Polyline(points [][2]float64, thickness float64, col RGB, closed bool) {
	if len(points) < 2 {
		return
	}
	for i := 1; i < len(points); i++ {
		c.Line(points[i-1][0], points[i-1][1], points[i][0], points[i][1], thickness, col)
	}
	if closed {
		last := points[len(points)-1]
		c.Line(last[0], last[1], points[0][0], points[0][1], thickness, col)
	}
}

func (col RGB) bytes() (uint8, uint8, uint8) {
	return floatByte(col.R), floatByte(col.G), floatByte(col.B)
}

func floatByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func blendByte(old uint8, v, alpha float64) uint8 {
	mixed := float64(old)/255*(1-alpha) + v*alpha
	return floatByte(mixed)
}

func addByte(old uint8, v float64) uint8 {
	sum := float64(old)/255 + v
	return floatByte(sum)
}

// HSV converts hue (degrees, wraps freely), saturation and value in
// 0..1 to RGB using the standard six 60-degree sector conversion.
func HSV(hue, sat, val float64) RGB {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	sat = clamp01(sat)
	val = clamp01(val)

	chroma := val * sat
	sector := hue / 60
	x := chroma * (1 - math.Abs(math.Mod(sector, 2)-1))
	m := val - chroma

	var r, g, b float64
	switch {
	case sector < 1:
		r, g, b = chroma, x, 0
	case sector < 2:
		r, g, b = x, chroma, 0
	case sector < 3:
		r, g, b = 0, chroma, x
	case sector < 4:
		r, g, b = 0, x, chroma
	case sector < 5:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return RGB{R: r + m, G: g + m, B: b + m}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
