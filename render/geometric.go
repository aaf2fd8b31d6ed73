package render

import (
	"math"

	"vizbeat/timeline"
	"vizbeat/visual"
)

// Geometric strategy constants. Tuned by eye; changing them changes the
// look, not correctness.
const (
	shapeLayers     = 6
	pulseScale      = 0.3  // beat pulse radius multiplier
	baseHue         = 30.0 // degrees
	sentimentHue    = 60.0 // degrees of hue swing per unit sentiment
	polygonMinSides = 3.0
	polygonMaxSides = 9.0
)

var backgroundColor = RGB{R: 5.0 / 255, G: 6.0 / 255, B: 10.0 / 255}

// Geometric renders the shape-morphing strategy onto a blank canvas.
// Pure function of (state, t, dimensions, style); safe for concurrent
// use across frames.
func Geometric(c *Canvas, state visual.State, t float64, style Style) {
	style = style.Clamped()
	c.Fill(backgroundColor)

	cx := float64(c.Width) / 2
	cy := float64(c.Height) / 2
	minDim := math.Min(float64(c.Width), float64(c.Height))

	drawBars(c, state, t, style, minDim)

	pulseMult := 1.0 + pulseScale*state.BeatPulse
	outer := minDim * (0.30 + 0.10*state.Bass) * pulseMult
	inner := 0.55 * outer

	for layer := 0; layer < shapeLayers; layer++ {
		depth := float64(layer) / float64(shapeLayers-1)
		radius := inner + (outer-inner)*depth
		thickness := style.LineThickness * (1.0 + state.Energy*0.5 + depth*0.8)

		hue := baseHue +
			sentimentHue*state.LyricSentiment +
			float64(layer)*12 +
			state.Treble*40 +
			8*math.Sin(t*0.4)
		sat := 0.55 + 0.45*state.LyricEnergy
		val := 0.35 + 0.65*state.Bass
		col := HSV(hue, sat, val)

		switch state.CurrentSection {
		case timeline.SectionDrop:
			drawMandala(c, cx, cy, radius, layer, state, t, thickness, col)
		case timeline.SectionVerse, timeline.SectionChorus:
			sides := polygonSides(t)
			rotation := t * (0.3 + state.Treble*1.2)
			drawMorphPolygon(c, cx, cy, radius, sides, rotation, thickness, col)
		default:
			drawRing(c, cx, cy, radius, thickness, col)
		}
	}
}

// polygonSides morphs the side count continuously between the min and
// max on a slow sine of wall-clock time.
func polygonSides(t float64) float64 {
	mid := (polygonMinSides + polygonMaxSides) / 2
	span := (polygonMaxSides - polygonMinSides) / 2
	return mid + span*math.Sin(t*0.25)
}

// drawRing strokes a circle outline.
func drawRing(c *Canvas, cx, cy, radius, thickness float64, col RGB) {
	if radius <= 0 {
		return
	}
	steps := int(2*math.Pi*radius) + 12
	points := make([][2]float64, 0, steps)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		points = append(points, [2]float64{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	c.Polyline(points, thickness, col, true)
}

// drawMorphPolygon strokes a regular polygon with a fractional side
// count. The radius of each outline point follows the standard polygon
// radius formula, which stays continuous as sides morphs.
func drawMorphPolygon(c *Canvas, cx, cy, radius, sides, rotation, thickness float64, col RGB) {
	if radius <= 0 || sides < 2 {
		return
	}
	steps := int(2*math.Pi*radius)/2 + 24
	points := make([][2]float64, 0, steps)
	sector := 2 * math.Pi / sides
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		local := math.Mod(a, sector) - sector/2
		r := radius * math.Cos(sector/2) / math.Cos(local)
		points = append(points, [2]float64{
			cx + r*math.Cos(a+rotation),
			cy + r*math.Sin(a+rotation),
		})
	}
	c.Polyline(points, thickness, col, true)
}

// drawMandala strokes radial petal polylines. Arm count grows with
// layer depth and energy.
func drawMandala(c *Canvas, cx, cy, radius float64, layer int, state visual.State, t float64, thickness float64, col RGB) {
	arms := 4 + layer + int(state.Energy*4)
	innerR := radius * 0.35
	for arm := 0; arm < arms; arm++ {
		base := 2*math.Pi*float64(arm)/float64(arms) + t*0.2
		petal := make([][2]float64, 0, 8)
		for j := 0; j <= 6; j++ {
			f := float64(j) / 6
			r := innerR + (radius-innerR)*f
			// Petals bow outward at the middle and return at the tip.
			sway := math.Sin(f*math.Pi) * 0.25 * (1 + state.Treble)
			a := base + sway*math.Sin(t+float64(layer))
			petal = append(petal, [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)})
		}
		c.Polyline(petal, thickness, col, false)
	}
}

// drawBars renders the frequency-bar cluster beneath the shapes. Bars
// respond to bass, mid or treble depending on their horizontal tertile.
func drawBars(c *Canvas, state visual.State, t float64, style Style, minDim float64) {
	n := style.BarCount
	maxH := minDim * 0.35 * (1.0 + pulseScale*state.BeatPulse)
	barW := float64(c.Width) / float64(n)
	baseY := float64(c.Height) - 1

	for i := 0; i < n; i++ {
		var level float64
		switch tertile := i * 3 / n; tertile {
		case 0:
			level = state.Bass*0.7 + state.Mid*0.2 + state.Treble*0.1
		case 1:
			level = state.Mid*0.7 + state.Bass*0.15 + state.Treble*0.15
		default:
			level = state.Treble*0.7 + state.Mid*0.2 + state.Bass*0.1
		}

		jitter := math.Sin(float64(i)*0.5+t*2) * state.Treble * 0.1
		taper := 1.0
		if n > 1 {
			center := float64(n-1) / 2
			offset := (float64(i) - center) / center
			taper = 1.0 - offset*offset*0.5
		}

		h := maxH * (0.15 + 0.85*level) * taper * (1.0 + jitter)
		if h < 1 {
			h = 1
		}

		hue := baseHue + sentimentHue*state.LyricSentiment + float64(i)*1.5 + t*6
		col := HSV(hue, 0.6+0.4*state.LyricEnergy, 0.3+0.6*level)

		x0 := int(float64(i)*barW + 1)
		x1 := int(float64(i+1)*barW - 1)
		if x1 < x0 {
			x1 = x0
		}
		c.FillRect(x0, int(baseY-h), x1, int(baseY), col)
	}
}
