package render

import (
	"math"

	"vizbeat/visual"
)

// Psychedelic field constants.
const (
	fieldSubsample = 2 // compute every 2nd pixel, fill 2x2 blocks
	ringCount      = 8
	ringHueStep    = 45.0 // degrees per ring
)

// Psychedelic renders a full-canvas radial color field with distorted
// concentric rings. Pure function of (state, t, dimensions, style);
// safe for concurrent use across frames.
func Psychedelic(c *Canvas, state visual.State, t float64, style Style) {
	style = style.Clamped()

	cx := float64(c.Width) / 2
	cy := float64(c.Height) / 2
	maxR := math.Hypot(cx, cy)
	if maxR <= 0 {
		maxR = 1
	}

	swirl := 0.8*state.Mid + 0.2
	hueBase := t*18 + sentimentHue*state.LyricSentiment + state.Treble*30
	sat := 0.4 + 0.6*state.Energy

	for y := 0; y < c.Height; y += fieldSubsample {
		for x := 0; x < c.Width; x += fieldSubsample {
			dx := float64(x) - cx
			dy := float64(y) - cy
			radius := math.Hypot(dx, dy)
			angle := math.Atan2(dy, dx)

			// Angular swirl distortion grows with radius.
			distorted := angle + swirl*(radius/maxR)*math.Sin(t*0.6+radius*0.01)

			hue := distorted*180/math.Pi + hueBase
			val := clamp01(0.15 + 0.5*(1-radius/maxR) + 0.25*state.Bass + 0.25*state.BeatPulse)
			col := HSV(hue, sat, val)

			for by := 0; by < fieldSubsample; by++ {
				for bx := 0; bx < fieldSubsample; bx++ {
					c.Set(x+bx, y+by, col)
				}
			}
		}
	}

	drawFieldRings(c, state, t, style, cx, cy, maxR, hueBase)
}

// drawFieldRings overlays concentric rings whose radius is perturbed by
// a sine of angle, time and treble.
func drawFieldRings(c *Canvas, state visual.State, t float64, style Style, cx, cy, maxR, hueBase float64) {
	for ring := 0; ring < ringCount; ring++ {
		base := maxR * float64(ring+1) / float64(ringCount+1)
		hue := hueBase + float64(ring)*ringHueStep
		col := HSV(hue, 0.8, 0.9)

		steps := int(2*math.Pi*base)/3 + 24
		points := make([][2]float64, 0, steps)
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(steps)
			r := base + math.Sin(a*6+t*2+state.Treble*5)*maxR*0.02
			points = append(points, [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)})
		}
		c.Polyline(points, style.LineThickness, col, true)
	}
}
