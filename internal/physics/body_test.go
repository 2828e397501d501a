package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func mustBody(d physics.Descriptor) *physics.Body {
	b, err := physics.NewBody(d)
	Expect(err).NotTo(HaveOccurred())
	return b
}

type stubPalette struct{}

func (stubPalette) Colors(i, n int) (string, string) { return "#ff0000", "#880000" }

var _ = Describe("Body", func() {
	It("derives the radius from mass once", func() {
		b := mustBody(physics.Descriptor{Mass: 10, TrailCap: 1})
		Expect(b.Radius()).To(BeNumerically("~", math.Cbrt(10*math.Pi*0.75), 1e-12))
		Expect(math.Pow(b.Radius(), 3)).To(BeNumerically("~", 10*math.Pi*0.75, 1e-9))
	})

	DescribeTable("rejects invalid mass",
		func(mass float64) {
			_, err := physics.NewBody(physics.Descriptor{Mass: mass, TrailCap: 1})
			Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		},
		Entry("zero", 0.0),
		Entry("negative", -1.0),
		Entry("NaN", math.NaN()),
		Entry("infinite", math.Inf(1)),
	)

	It("rejects an empty trail", func() {
		_, err := physics.NewBody(physics.Descriptor{Mass: 1, TrailCap: 0})
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("fills in default colors", func() {
		b := mustBody(physics.Descriptor{Mass: 1, TrailCap: 1})
		Expect(b.Color()).To(Equal(physics.DefaultColor))
		Expect(b.TrailColor()).To(Equal(physics.DefaultTrailColor))
	})

	It("starts the trail at the construction position", func() {
		b := mustBody(physics.Descriptor{Mass: 1, TrailCap: 4, Position: dynamo.Vec2{X: 3, Y: 4}})
		trail := b.Trail()
		Expect(trail).To(HaveLen(4))
		Expect(trail[0]).To(Equal(physics.TrailPoint{Pos: dynamo.Vec2{X: 3, Y: 4}, Valid: true}))
		for _, p := range trail[1:] {
			Expect(p.Valid).To(BeFalse())
		}
	})
})

var _ = Describe("Gravity", func() {
	var a, b *physics.Body

	BeforeEach(func() {
		a = mustBody(physics.Descriptor{Mass: 3, TrailCap: 1, Position: dynamo.Vec2{X: 0, Y: 0}})
		b = mustBody(physics.Descriptor{Mass: 7, TrailCap: 1, Position: dynamo.Vec2{X: 30, Y: 40}})
	})

	It("measures Euclidean distance", func() {
		Expect(physics.Distance(a, b)).To(BeNumerically("~", 50, 1e-12))
		Expect(physics.Distance(b, a)).To(Equal(physics.Distance(a, b)))
	})

	It("is symmetric in magnitude", func() {
		fab, err := physics.GravityForce(a, b, 0.01)
		Expect(err).NotTo(HaveOccurred())
		fba, err := physics.GravityForce(b, a, 0.01)
		Expect(err).NotTo(HaveOccurred())
		Expect(fab).To(BeNumerically("~", 0.01*3*7/2500.0, 1e-15))
		Expect(fab).To(Equal(fba))
	})

	It("reports coincident bodies", func() {
		c := mustBody(physics.Descriptor{Mass: 5, TrailCap: 1})
		d := mustBody(physics.Descriptor{Mass: 5, TrailCap: 1})
		_, err := physics.GravityForce(c, d, 1)
		Expect(err).To(MatchError(dynamo.ErrDegenerateForce))
		Expect(physics.ClampedGravityForce(c, d, 1, 0.5)).To(BeNumerically("~", 25/0.25, 1e-12))
	})
})

var _ = Describe("Generate", func() {
	It("draws bodies inside the requested ranges", func() {
		rng := rand.New(rand.NewSource(7))
		bodies, err := physics.Generate(rng, physics.GenerateSpec{
			Count: 200, MassMax: 100, XMax: 650, YMax: 600, VelocityMax: 2, TrailCap: 3, Palette: stubPalette{},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(bodies).To(HaveLen(200))
		for _, b := range bodies {
			Expect(b.Mass()).To(And(BeNumerically(">", 0), BeNumerically("<", 100)))
			Expect(b.Position().X).To(And(BeNumerically(">=", 10), BeNumerically("<=", 640)))
			Expect(b.Position().Y).To(And(BeNumerically(">=", 10), BeNumerically("<=", 590)))
			Expect(b.Velocity().X).To(And(BeNumerically(">=", 0), BeNumerically("<", 2)))
			Expect(b.Velocity().Y).To(And(BeNumerically(">=", 0), BeNumerically("<", 2)))
			Expect(b.Color()).To(Equal("#ff0000"))
			Expect(b.Trail()).To(HaveLen(3))
		}
	})

	It("is reproducible for a seed", func() {
		spec := physics.GenerateSpec{Count: 5, MassMax: 10, XMax: 100, YMax: 100, VelocityMax: 1, TrailCap: 1}
		a, err := physics.Generate(rand.New(rand.NewSource(1)), spec)
		Expect(err).NotTo(HaveOccurred())
		b, err := physics.Generate(rand.New(rand.NewSource(1)), spec)
		Expect(err).NotTo(HaveOccurred())
		for i := range a {
			Expect(a[i].Position()).To(Equal(b[i].Position()))
			Expect(a[i].Mass()).To(Equal(b[i].Mass()))
		}
	})

	It("rejects bounds smaller than the inset", func() {
		_, err := physics.Generate(rand.New(rand.NewSource(1)), physics.GenerateSpec{Count: 1, MassMax: 1, XMax: 15, YMax: 100, TrailCap: 1})
		Expect(err).To(MatchError(dynamo.ErrOutOfBoundsConfig))
	})

	It("rejects a non-positive mass ceiling", func() {
		_, err := physics.Generate(rand.New(rand.NewSource(1)), physics.GenerateSpec{Count: 1, MassMax: 0, XMax: 100, YMax: 100, TrailCap: 1})
		Expect(err).To(MatchError(dynamo.ErrInvalidMass))
	})
})
