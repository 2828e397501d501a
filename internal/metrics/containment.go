package metrics

import "github.com/san-kum/orbitsim/internal/physics"

// Containment is the fraction of observed steps in which every body lay
// inside the domain's margin box.
type Containment struct {
	name       string
	domain     physics.Domain
	violations int
	samples    int
}

func NewContainment(domain physics.Domain) *Containment {
	return &Containment{
		name:   "containment",
		domain: domain,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(step int, states []physics.BodyState) {
	c.samples++
	for _, s := range states {
		if !c.domain.Contains(s.Position) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
