package race

const (
	defaultSpeedStep = 0.0002
	defaultMaxSpeed  = 0.008
)

// Progress accumulates the fraction of the current lap.
// The per frame increment ramps up from zero to a ceiling at the start of
// each lap and holds it until the lap rolls over.
type Progress struct {
	value    float64
	speed    float64
	step     float64
	maxSpeed float64
}

func NewProgress(step, maxSpeed float64) Progress {
	return Progress{step: step, maxSpeed: maxSpeed}
}

// Advance moves the accumulator by one frame.
// It returns true if a full lap was reached, the accumulator starts over then.
func (p *Progress) Advance() bool {
	p.speed = min(p.speed+p.step, p.maxSpeed)
	p.value += p.speed
	if p.value >= 1 {
		p.Reset()
		return true
	}
	return false
}

// Reset clears the accumulated lap fraction and the ramp
func (p *Progress) Reset() {
	p.value = 0
	p.speed = 0
}

// ResetSpeed restarts the ramp but keeps the accumulated fraction
func (p *Progress) ResetSpeed() {
	p.speed = 0
}

func (p *Progress) Value() float64 {
	return p.value
}

func (p *Progress) Speed() float64 {
	return p.speed
}
