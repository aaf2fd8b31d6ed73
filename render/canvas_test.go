package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanvasAllocation(t *testing.T) {
	c := NewCanvas(4, 3)
	assert.Equal(t, 4, c.Width)
	assert.Equal(t, 3, c.Height)
	assert.Len(t, c.Pix, 4*3*3)
}

func TestSetIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	require.NotPanics(t, func() {
		c.Set(-1, 0, RGB{R: 1})
		c.Set(0, -1, RGB{R: 1})
		c.Set(2, 0, RGB{R: 1})
		c.Set(0, 2, RGB{R: 1})
		c.Blend(-5, 10, RGB{R: 1}, 0.5)
		c.Add(100, 100, RGB{R: 1}, 0.5)
	})
	for _, b := range c.Pix {
		assert.Equal(t, uint8(0), b)
	}
}

func TestSetAndFill(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Fill(RGB{R: 1, G: 0, B: 0})
	assert.Equal(t, uint8(255), c.Pix[0])
	assert.Equal(t, uint8(0), c.Pix[1])

	c.Set(1, 1, RGB{G: 1})
	i := (1*2 + 1) * 3
	assert.Equal(t, uint8(0), c.Pix[i])
	assert.Equal(t, uint8(255), c.Pix[i+1])
}

func TestAddSaturates(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Add(0, 0, RGB{R: 1}, 1)
	c.Add(0, 0, RGB{R: 1}, 1)
	assert.Equal(t, uint8(255), c.Pix[0])
}

func TestHSVPrimaries(t *testing.T) {
	red := HSV(0, 1, 1)
	assert.InDelta(t, 1, red.R, 1e-9)
	assert.InDelta(t, 0, red.G, 1e-9)
	assert.InDelta(t, 0, red.B, 1e-9)

	green := HSV(120, 1, 1)
	assert.InDelta(t, 0, green.R, 1e-9)
	assert.InDelta(t, 1, green.G, 1e-9)

	blue := HSV(240, 1, 1)
	assert.InDelta(t, 1, blue.B, 1e-9)
}

func TestHSVHueWraps(t *testing.T) {
	assert.Equal(t, HSV(120, 1, 1), HSV(480, 1, 1))
	assert.Equal(t, HSV(350, 0.5, 0.5), HSV(-10, 0.5, 0.5))
}

func TestHSVZeroSaturationIsGray(t *testing.T) {
	c := HSV(200, 0, 0.5)
	assert.InDelta(t, c.R, c.G, 1e-9)
	assert.InDelta(t, c.G, c.B, 1e-9)
	assert.InDelta(t, 0.5, c.R, 1e-9)
}

func TestPolylineNoopBelowTwoPoints(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Polyline([][2]float64{{1, 1}}, 2, RGB{R: 1}, true)
	for _, b := range c.Pix {
		assert.Equal(t, uint8(0), b)
	}
}
