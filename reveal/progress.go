package reveal

import "github.com/meghashyamc/lasercavity/scene"

// Progress advances the revealed fraction of a path frame by frame.
type Progress struct {
	fraction float64
	speed    float64
}

// NewProgress takes a speed slider value in [0,100]; 0 is very slow, 100 fast.
func NewProgress(speedSlider int) *Progress {
	return &Progress{
		fraction: 0,
		speed:    SpeedFromSlider(speedSlider),
	}
}

// SpeedFromSlider maps a slider value to the fraction revealed per frame.
// Values outside [0,100] are clamped so the reveal always moves forward.
func SpeedFromSlider(value int) float64 {
	return 0.001 + (float64(scene.ClampSpeed(value))/100)*0.08
}

func (p *Progress) Update() {
	p.fraction += p.speed
	if p.fraction > 1 {
		p.fraction = 1
	}
}

func (p *Progress) IsDone() bool {
	return p.fraction >= 1
}

func (p *Progress) Fraction() float64 {
	return p.fraction
}

func (p *Progress) Reset() {
	p.fraction = 0
}

// Finish jumps to the fully drawn state, as when an animation is interrupted.
func (p *Progress) Finish() {
	p.fraction = 1
}
