package render

import (
	"math"
	"math/rand"

	"vizbeat/timeline"
	"vizbeat/visual"
)

// Particle physics constants. Empirically chosen; they shape the
// visual behavior and are normalized to a 60fps reference regardless of
// the actual output frame rate.
const (
	ParticleCount      = 5000
	radialForceScale   = 0.08
	jitterScale        = 0.5
	swirlScale         = 0.03
	velocityDamping    = 0.98
	lifeDecayPerFrame  = 0.002
	referenceFrameRate = 60.0
)

// Particle is a single simulated point.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64 // 0..1
	Size    float64
	HueSeed float64
}

// ParticleSimulator owns a fixed-count particle population for one
// render job. It must be advanced strictly in increasing time order by
// exactly one caller; it is never shared across concurrent jobs.
type ParticleSimulator struct {
	width     float64
	height    float64
	particles []Particle
	rng       *rand.Rand
}

// NewParticleSimulator seeds a population of ParticleCount particles
// with uniformly random position, velocity, life, size and hue.
// The same seed reproduces the same animation.
func NewParticleSimulator(width, height int, seed int64) *ParticleSimulator {
	sim := &ParticleSimulator{
		width:     float64(width),
		height:    float64(height),
		particles: make([]Particle, ParticleCount),
		rng:       rand.New(rand.NewSource(seed)),
	}
	for i := range sim.particles {
		sim.particles[i] = sim.spawn()
		sim.particles[i].Life = sim.rng.Float64()
	}
	return sim
}

func (sim *ParticleSimulator) spawn() Particle {
	angle := sim.rng.Float64() * 2 * math.Pi
	speed := sim.rng.Float64() * 0.8
	return Particle{
		X:       sim.rng.Float64() * sim.width,
		Y:       sim.rng.Float64() * sim.height,
		VX:      math.Cos(angle) * speed,
		VY:      math.Sin(angle) * speed,
		Life:    1.0,
		Size:    1.0 + sim.rng.Float64()*2.5,
		HueSeed: sim.rng.Float64() * 360,
	}
}

// Count returns the constant particle population size.
func (sim *ParticleSimulator) Count() int {
	return len(sim.particles)
}

// Step advances every particle by one frame of the given timestep.
// Effect magnitudes are normalized to a 60fps reference.
func (sim *ParticleSimulator) Step(state visual.State, dt float64) {
	cx := sim.width / 2
	cy := sim.height / 2
	scale := dt * referenceFrameRate

	for i := range sim.particles {
		p := &sim.particles[i]

		// Radial push from center along the particle's offset direction.
		dx := p.X - cx
		dy := p.Y - cy
		dist := math.Hypot(dx, dy)
		if dist > 0 {
			force := state.Bass * radialForceScale
			p.VX += dx / dist * force
			p.VY += dy / dist * force
		}

		// Treble jitter on both velocity components.
		jitter := state.Treble * jitterScale
		p.VX += (sim.rng.Float64()*2 - 1) * jitter
		p.VY += (sim.rng.Float64()*2 - 1) * jitter

		// Mid-driven swirl: rotate the velocity vector in place.
		swirl := state.Mid * swirlScale
		cos, sin := math.Cos(swirl), math.Sin(swirl)
		p.VX, p.VY = p.VX*cos-p.VY*sin, p.VX*sin+p.VY*cos

		p.VX *= velocityDamping
		p.VY *= velocityDamping

		p.X += p.VX * scale
		p.Y += p.VY * scale

		// Toroidal wraparound keeps every particle on canvas.
		p.X = wrap(p.X, sim.width)
		p.Y = wrap(p.Y, sim.height)

		p.Life -= lifeDecayPerFrame
		if p.Life <= 0 {
			respawned := sim.spawn()
			*p = respawned
		}
	}
}

// Render draws every particle as a glowing disc. The base hue comes
// from the active section's hue band, modulated by overall energy and
// time.
func (sim *ParticleSimulator) Render(c *Canvas, state visual.State, t float64, style Style) {
	style = style.Clamped()
	c.Fill(backgroundColor)

	baseHue := sectionHue(state.CurrentSection)
	glow := style.GlowStrength

	for i := range sim.particles {
		p := &sim.particles[i]
		hue := baseHue + p.HueSeed*0.2 + state.Energy*40 + t*4
		col := HSV(hue, 0.7, 0.4+0.6*p.Life)

		// Manual glow: concentric discs of decreasing radius and alpha.
		c.AddCircle(p.X, p.Y, p.Size*2.5, col, 0.10*p.Life*glow)
		c.AddCircle(p.X, p.Y, p.Size*1.5, col, 0.25*p.Life*glow)
		c.AddCircle(p.X, p.Y, p.Size*0.8, col, 0.85*p.Life)
	}
}

// sectionHue maps each section label to a fixed hue band.
func sectionHue(section timeline.SectionType) float64 {
	switch section {
	case timeline.SectionIntro:
		return 210 // blue
	case timeline.SectionVerse:
		return 150 // green
	case timeline.SectionChorus:
		return 45 // gold
	case timeline.SectionDrop:
		return 0 // red
	case timeline.SectionBridge:
		return 280 // violet
	case timeline.SectionOutro:
		return 190 // teal
	default:
		return 210
	}
}

func wrap(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	v = math.Mod(v, limit)
	if v < 0 {
		v += limit
	}
	return v
}
