package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

var _ = Describe("Registry", func() {
	It("owns copies of the bodies it is given", func() {
		b := mustBody(physics.Descriptor{Mass: 1, Position: dynamo.Vec2{X: 100, Y: 100}, Velocity: dynamo.Vec2{X: 1}, TrailCap: 2})
		reg, err := physics.NewRegistry(b)
		Expect(err).NotTo(HaveOccurred())

		mustStepper(physics.DefaultStepConfig()).Step(reg)

		Expect(reg.Body(0).Position).To(Equal(dynamo.Vec2{X: 101, Y: 100}))
		Expect(b.Position()).To(Equal(dynamo.Vec2{X: 100, Y: 100}))
		Expect(b.Trail()[1].Valid).To(BeFalse())
	})

	It("hands out snapshots that do not alias body state", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{{Mass: 1, TrailCap: 2}})
		Expect(err).NotTo(HaveOccurred())

		s := reg.Body(0)
		s.Trail[0].Pos = dynamo.Vec2{X: 99}
		Expect(reg.Body(0).Trail[0].Pos).To(Equal(dynamo.Vec2{}))
	})

	It("keeps insertion order", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 1, TrailCap: 1}, {Mass: 2, TrailCap: 1}, {Mass: 3, TrailCap: 1},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(reg.Len()).To(Equal(3))
		for i, s := range reg.States() {
			Expect(s.Index).To(Equal(i))
			Expect(s.Mass).To(Equal(float64(i + 1)))
		}
	})

	It("stops at the first invalid descriptor", func() {
		_, err := physics.FromDescriptors([]physics.Descriptor{{Mass: 1, TrailCap: 1}, {Mass: 0, TrailCap: 1}})
		Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		Expect(err.Error()).To(ContainSubstring("body 1"))
	})

	It("rejects nil bodies", func() {
		_, err := physics.NewRegistry(nil)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("clones independently", func() {
		reg := orbitRegistry()
		c := reg.Clone()
		mustStepper(physics.DefaultStepConfig()).Step(c)
		Expect(reg.Body(0).Position).To(Equal(dynamo.Vec2{X: 350, Y: 250}))
		Expect(c.Body(0).Position).NotTo(Equal(dynamo.Vec2{X: 350, Y: 250}))
	})
})

var _ = Describe("Trail", func() {
	It("keeps its length and evicts the oldest sample", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 1, Position: dynamo.Vec2{X: 100, Y: 100}, Velocity: dynamo.Vec2{X: 1, Y: 2}, TrailCap: 5},
		})
		Expect(err).NotTo(HaveOccurred())
		st := mustStepper(physics.DefaultStepConfig())

		history := []dynamo.Vec2{reg.Body(0).Position}
		for step := 1; step <= 12; step++ {
			st.Step(reg)
			s := reg.Body(0)
			history = append(history, s.Position)

			Expect(s.Trail).To(HaveLen(5))
			Expect(s.Trail[0].Pos).To(Equal(s.Position))
			for k, p := range s.Trail {
				if k > step {
					Expect(p.Valid).To(BeFalse())
					continue
				}
				Expect(p.Valid).To(BeTrue())
				Expect(p.Pos).To(Equal(history[len(history)-1-k]))
			}
		}
	})

	It("reports the newest sample", func() {
		tr := physics.NewTrail(3, dynamo.Vec2{X: 1})
		tr.Push(dynamo.Vec2{X: 2})
		tr.Push(dynamo.Vec2{X: 3})
		tr.Push(dynamo.Vec2{X: 4})
		Expect(tr.Newest()).To(Equal(dynamo.Vec2{X: 4}))
		Expect(tr.Cap()).To(Equal(3))
		pts := tr.Points()
		Expect([]float64{pts[0].Pos.X, pts[1].Pos.X, pts[2].Pos.X}).To(Equal([]float64{4, 3, 2}))
	})
})

var _ = Describe("Energy", func() {
	It("sums kinetic and clamped potential energy", func() {
		reg, err := physics.FromDescriptors([]physics.Descriptor{
			{Mass: 2, Position: dynamo.Vec2{X: 0, Y: 0}, Velocity: dynamo.Vec2{X: 3, Y: 4}, TrailCap: 1},
			{Mass: 4, Position: dynamo.Vec2{X: 10, Y: 0}, TrailCap: 1, Static: true, Velocity: dynamo.Vec2{X: 100}},
		})
		Expect(err).NotTo(HaveOccurred())
		states := reg.States()

		Expect(physics.Energy(states, 1, 1)).To(BeNumerically("~", 0.5*2*25-1*2*4/10.0, 1e-12))
		Expect(physics.Momentum(states)).To(Equal(dynamo.Vec2{X: 6, Y: 8}))
		Expect(physics.AngularMomentum(states)).To(Equal(0.0))
	})
})
