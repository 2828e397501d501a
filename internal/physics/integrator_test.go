package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// referenceKick is the angle decomposition the stepper must agree with:
// angle = atan(|dy|/|dx|) (π/2 when dx == 0), every component signed toward
// the other body, including the dx == 0 case.
func referenceKick(g, dt float64, self physics.BodyState, all []physics.BodyState) dynamo.Vec2 {
	v := self.Velocity
	for _, o := range all {
		if o.Index == self.Index {
			continue
		}
		dx := o.Position.X - self.Position.X
		dy := o.Position.Y - self.Position.Y
		angle := math.Pi / 2
		if dx != 0 {
			angle = math.Atan(math.Abs(dy) / math.Abs(dx))
		}
		d := math.Hypot(dx, dy)
		force := g * self.Mass * o.Mass / (d * d)
		dv := force / self.Mass * dt
		if dx > 0 {
			v.X += dv * math.Cos(angle)
		} else {
			v.X -= dv * math.Cos(angle)
		}
		if dy > 0 {
			v.Y += dv * math.Sin(angle)
		} else {
			v.Y -= dv * math.Sin(angle)
		}
	}
	return v
}

func orbitRegistry() *physics.Registry {
	reg, err := physics.FromDescriptors([]physics.Descriptor{
		{Mass: 10, Position: dynamo.Vec2{X: 350, Y: 250}, Velocity: dynamo.Vec2{X: 3.5}, TrailCap: 20},
		{Mass: 10, Position: dynamo.Vec2{X: 350, Y: 150}, Velocity: dynamo.Vec2{X: 2.5}, TrailCap: 20},
		{Mass: 10, Position: dynamo.Vec2{X: 350, Y: 50}, Velocity: dynamo.Vec2{X: 2}, TrailCap: 20},
		{Mass: 1500, Position: dynamo.Vec2{X: 350, Y: 350}, TrailCap: 20, Static: true},
	})
	Expect(err).NotTo(HaveOccurred())
	return reg
}

func mustStepper(cfg physics.StepConfig) *physics.Stepper {
	st, err := physics.NewStepper(cfg)
	Expect(err).NotTo(HaveOccurred())
	return st
}

func openDomain() physics.StepConfig {
	cfg := physics.DefaultStepConfig()
	cfg.Domain = physics.Domain{Width: 1e7, Height: 1e7, Margin: 10}
	return cfg
}

var _ = Describe("Stepper", func() {
	Describe("configuration", func() {
		DescribeTable("rejects bad domains",
			func(d physics.Domain) {
				cfg := physics.DefaultStepConfig()
				cfg.Domain = d
				_, err := physics.NewStepper(cfg)
				Expect(err).To(MatchError(dynamo.ErrOutOfBoundsConfig))
			},
			Entry("zero width", physics.Domain{Width: 0, Height: 700, Margin: 10}),
			Entry("negative height", physics.Domain{Width: 700, Height: -1, Margin: 10}),
			Entry("margin at half the smaller side", physics.Domain{Width: 700, Height: 400, Margin: 200}),
			Entry("negative margin", physics.Domain{Width: 700, Height: 700, Margin: -1}),
		)

		DescribeTable("rejects bad step parameters",
			func(mutate func(*physics.StepConfig)) {
				cfg := physics.DefaultStepConfig()
				mutate(&cfg)
				_, err := physics.NewStepper(cfg)
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero dt", func(c *physics.StepConfig) { c.Dt = 0 }),
			Entry("zero drift", func(c *physics.StepConfig) { c.Drift = 0 }),
			Entry("elastic restitution", func(c *physics.StepConfig) { c.Restitution = -1 }),
			Entry("positive restitution", func(c *physics.StepConfig) { c.Restitution = 0.5 }),
			Entry("zero min distance", func(c *physics.StepConfig) { c.MinDistance = 0 }),
			Entry("negative G", func(c *physics.StepConfig) { c.G = -0.01 }),
		)
	})

	Describe("the orbit scenario", func() {
		var (
			reg *physics.Registry
			st  *physics.Stepper
		)

		BeforeEach(func() {
			reg = orbitRegistry()
			st = mustStepper(physics.DefaultStepConfig())
		})

		It("applies force/mass*dt kicks on the first step", func() {
			st.Step(reg)

			a, b, c := reg.Body(0), reg.Body(1), reg.Body(2)
			Expect(a.Velocity.X).To(BeNumerically("~", 3.5, 1e-12))
			Expect(a.Velocity.Y).To(BeNumerically("~", 0.12-0.0008-0.0002, 1e-12))
			Expect(b.Velocity.X).To(BeNumerically("~", 2.5, 1e-12))
			Expect(b.Velocity.Y).To(BeNumerically("~", 0.03, 1e-12))
			Expect(c.Velocity.X).To(BeNumerically("~", 2, 1e-12))
			Expect(c.Velocity.Y).To(BeNumerically("~", 0.001+0.04/3, 1e-12))

			Expect(a.Position.X).To(BeNumerically("~", 353.5, 1e-9))
			Expect(a.Position.Y).To(BeNumerically("~", 250.119, 1e-9))
		})

		It("keeps the anchor fixed", func() {
			for i := 0; i < 500; i++ {
				st.Step(reg)
				Expect(reg.Body(3).Position).To(Equal(dynamo.Vec2{X: 350, Y: 350}))
			}
		})

		It("stays inside the margin box over a long run", func() {
			box := physics.DefaultStepConfig().Domain
			outside, maxSpeed := 0, 0.0
			for i := 0; i < 20000; i++ {
				st.Step(reg)
				for _, s := range reg.States() {
					Expect(s.Position.IsValid()).To(BeTrue())
					if !box.Contains(s.Position) {
						outside++
					}
					maxSpeed = math.Max(maxSpeed, s.Velocity.Norm())
				}
			}
			Expect(outside).To(BeZero())
			// a bounce halves the speed, so escaping needs about twice the box width
			Expect(maxSpeed).To(BeNumerically("<", 100))
		})
	})

	It("matches the reference angle decomposition off-axis", func() {
		rng := rand.New(rand.NewSource(11))
		bodies, err := physics.Generate(rng, physics.GenerateSpec{
			Count: 12, MassMax: 100, XMax: 1e5, YMax: 1e5, VelocityMax: 1, Inset: 1000, TrailCap: 2,
		})
		Expect(err).NotTo(HaveOccurred())
		reg, err := physics.NewRegistry(bodies...)
		Expect(err).NotTo(HaveOccurred())

		cfg := openDomain()
		cfg.G = 50
		before := reg.States()
		mustStepper(cfg).Step(reg)

		for i, s := range before {
			want := referenceKick(cfg.G, cfg.Dt, s, before)
			got := reg.Body(i).Velocity
			Expect(got.X).To(BeNumerically("~", want.X, 1e-12))
			Expect(got.Y).To(BeNumerically("~", want.Y, 1e-12))
		}
	})

	It("gives equal and opposite momentum changes to a pair", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 3, Position: dynamo.Vec2{X: 1000, Y: 1000}, TrailCap: 1},
			{Mass: 7, Position: dynamo.Vec2{X: 1030, Y: 1040}, TrailCap: 1},
		})
		Expect(err).NotTo(HaveOccurred())
		mustStepper(openDomain()).Step(reg)

		pa := reg.Body(0).Velocity.Scale(3)
		pb := reg.Body(1).Velocity.Scale(7)
		Expect(pa.X).To(BeNumerically("~", -pb.X, 1e-15))
		Expect(pa.Y).To(BeNumerically("~", -pb.Y, 1e-15))

		// |dv_a| = G*m_b/d²*dt with d = 50
		Expect(reg.Body(0).Velocity.Norm()).To(BeNumerically("~", 0.01*7/2500.0*80, 1e-12))
		Expect(reg.Body(0).Velocity.X).To(BeNumerically(">", 0))
		Expect(reg.Body(1).Velocity.Y).To(BeNumerically("<", 0))
	})

	It("pulls on others from a static body", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 1500, Position: dynamo.Vec2{X: 350, Y: 350}, Velocity: dynamo.Vec2{X: 5, Y: 5}, Static: true, TrailCap: 3},
			{Mass: 1, Position: dynamo.Vec2{X: 250, Y: 350}, TrailCap: 3},
		})
		Expect(err).NotTo(HaveOccurred())
		st := mustStepper(physics.DefaultStepConfig())

		st.Step(reg)
		anchor := reg.Body(0)
		Expect(anchor.Position).To(Equal(dynamo.Vec2{X: 350, Y: 350}))
		Expect(anchor.Velocity).To(Equal(dynamo.Vec2{X: 5, Y: 5}))
		Expect(reg.Body(1).Velocity.X).To(BeNumerically("~", 0.01*1500/10000.0*80, 1e-12))
		Expect(anchor.Trail[0].Pos).To(Equal(anchor.Position))
	})

	Describe("boundary bounce", func() {
		single := func(pos, vel dynamo.Vec2) *physics.Registry {
			reg, err := physics.FromDescriptors([]physics.Descriptor{
				{Mass: 1, Position: pos, Velocity: vel, TrailCap: 2},
			})
			Expect(err).NotTo(HaveOccurred())
			return reg
		}

		It("reverses and halves x velocity at the right wall", func() {
			reg := single(dynamo.Vec2{X: 685, Y: 350}, dynamo.Vec2{X: 10})
			mustStepper(physics.DefaultStepConfig()).Step(reg)
			s := reg.Body(0)
			Expect(s.Velocity.X).To(Equal(-5.0))
			Expect(s.Position.X).To(Equal(680.0))
			Expect(s.Position.X).To(BeNumerically("<=", 690+10))
		})

		It("reverses y velocity at the top and bottom", func() {
			reg := single(dynamo.Vec2{X: 350, Y: 12}, dynamo.Vec2{Y: -4})
			mustStepper(physics.DefaultStepConfig()).Step(reg)
			s := reg.Body(0)
			Expect(s.Velocity.Y).To(Equal(2.0))
			Expect(s.Position.Y).To(Equal(14.0))
		})

		It("uses the configured restitution per axis", func() {
			cfg := physics.DefaultStepConfig()
			cfg.Restitution = -0.8
			reg := single(dynamo.Vec2{X: 15, Y: 350}, dynamo.Vec2{X: -10, Y: 1})
			mustStepper(cfg).Step(reg)
			s := reg.Body(0)
			Expect(s.Velocity.X).To(BeNumerically("~", 8, 1e-12))
			Expect(s.Velocity.Y).To(Equal(1.0))
		})

		It("leaves a body moving freely inside the box alone", func() {
			reg := single(dynamo.Vec2{X: 100, Y: 100}, dynamo.Vec2{X: 3, Y: -2})
			mustStepper(physics.DefaultStepConfig()).Step(reg)
			s := reg.Body(0)
			Expect(s.Velocity).To(Equal(dynamo.Vec2{X: 3, Y: -2}))
			Expect(s.Position).To(Equal(dynamo.Vec2{X: 103, Y: 98}))
		})
	})

	It("keeps coincident bodies finite", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 5, Position: dynamo.Vec2{X: 100, Y: 100}, TrailCap: 1},
			{Mass: 7, Position: dynamo.Vec2{X: 100, Y: 100}, TrailCap: 1},
		})
		Expect(err).NotTo(HaveOccurred())
		mustStepper(openDomain()).Step(reg)

		idx, err := reg.Validate()
		Expect(err).NotTo(HaveOccurred())
		Expect(idx).To(Equal(-1))
		for _, s := range reg.States() {
			Expect(s.Velocity.IsValid()).To(BeTrue())
			Expect(s.Position.IsValid()).To(BeTrue())
		}
		// clamped to contact distance and pushed along +x
		contact := physics.Radius(5) + physics.Radius(7)
		Expect(reg.Body(0).Velocity.X).To(BeNumerically("~", 0.01*7/(contact*contact)*80, 1e-12))
		Expect(reg.Body(0).Velocity.Y).To(Equal(0.0))
	})

	It("clamps coincident bodies to MinDistance without the contact clamp", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 5, Position: dynamo.Vec2{X: 100, Y: 100}, TrailCap: 1},
			{Mass: 7, Position: dynamo.Vec2{X: 100, Y: 100}, TrailCap: 1},
		})
		Expect(err).NotTo(HaveOccurred())
		cfg := openDomain()
		cfg.ContactClamp = false
		mustStepper(cfg).Step(reg)

		Expect(reg.Body(0).Velocity.X).To(BeNumerically("~", 0.01*7*80, 1e-12))
		// atan2(0, 0) pushes both along +x
		Expect(reg.Body(1).Velocity.X).To(BeNumerically("~", 0.01*5*80, 1e-12))
	})

	It("limits the kick of a body inside the anchor to a contact-sized one", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 10, Position: dynamo.Vec2{X: 349, Y: 350}, TrailCap: 1},
			{Mass: 1500, Position: dynamo.Vec2{X: 350, Y: 350}, TrailCap: 1, Static: true},
		})
		Expect(err).NotTo(HaveOccurred())
		mustStepper(physics.DefaultStepConfig()).Step(reg)

		contact := physics.Radius(10) + physics.Radius(1500)
		v := reg.Body(0).Velocity
		Expect(v.X).To(BeNumerically("~", 0.01*1500/(contact*contact)*80, 1e-12))
		Expect(v.X).To(BeNumerically("<", 5))
		Expect(reg.Body(0).Position.X).To(BeNumerically("~", 349+v.X, 1e-9))
	})

	DescribeTable("force separation",
		func(contact bool, d, ra, rb, want float64) {
			cfg := physics.DefaultStepConfig()
			cfg.ContactClamp = contact
			Expect(cfg.Separation(d, ra, rb)).To(Equal(want))
		},
		Entry("far apart", true, 50.0, 2.0, 3.0, 50.0),
		Entry("overlapping", true, 4.0, 2.0, 3.0, 5.0),
		Entry("tiny radii use MinDistance", true, 0.1, 0.2, 0.3, 1.0),
		Entry("overlapping without contact clamp", false, 4.0, 2.0, 3.0, 4.0),
		Entry("coincident without contact clamp", false, 0.0, 2.0, 3.0, 1.0),
	)

	It("measures energy with the same clamp", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 10, Position: dynamo.Vec2{X: 100, Y: 100}, TrailCap: 1},
			{Mass: 20, Position: dynamo.Vec2{X: 102, Y: 100}, TrailCap: 1},
		})
		Expect(err).NotTo(HaveOccurred())
		states := reg.States()

		cfg := physics.DefaultStepConfig()
		contact := physics.Radius(10) + physics.Radius(20)
		Expect(cfg.Energy(states)).To(BeNumerically("~", -0.01*10*20/contact, 1e-12))

		cfg.ContactClamp = false
		Expect(cfg.Energy(states)).To(Equal(physics.Energy(states, cfg.G, cfg.MinDistance)))
		Expect(cfg.Energy(states)).To(BeNumerically("~", -0.01*10*20/2, 1e-12))
	})

	Describe("determinism", func() {
		run := func(parallel bool) []dynamo.Vec2 {
			bodies, err := physics.Generate(rand.New(rand.NewSource(42)), physics.GenerateSpec{
				Count: 64, MassMax: 50, XMax: 700, YMax: 700, VelocityMax: 1, TrailCap: 4,
			})
			Expect(err).NotTo(HaveOccurred())
			reg, err := physics.NewRegistry(bodies...)
			Expect(err).NotTo(HaveOccurred())

			cfg := physics.DefaultStepConfig()
			cfg.Dt = 1
			cfg.Parallel = parallel
			cfg.Workers = 4
			st := mustStepper(cfg)
			for i := 0; i < 200; i++ {
				st.Step(reg)
			}
			return reg.Positions()
		}

		It("reproduces trajectories bit for bit", func() {
			Expect(run(false)).To(Equal(run(false)))
		})

		It("does not depend on parallel accumulation", func() {
			Expect(run(true)).To(Equal(run(false)))
		})
	})
})
