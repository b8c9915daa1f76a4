package energy_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
)

// Reference jump: 90 kg jumper, 1 m of air, 0.5 m of mat give.
var _ = Describe("Ledger", func() {
	var led *energy.Ledger

	BeforeEach(func() {
		var err error
		led, err = energy.NewLedger(90, 9.81, 0.5, 1.0, 0)
		Expect(err).NotTo(HaveOccurred())
	})

	It("derives the stiffness that bottoms the drop out at zero", func() {
		Expect(led.Stiffness()).To(BeNumerically("~", 7063.2, 1e-9))
	})

	It("budgets the total mechanical energy of the drop", func() {
		Expect(led.Total()).To(BeNumerically("~", 882.9, 1e-9))
	})

	Describe("pricing heights", func() {
		It("holds everything in gravity at the apex", func() {
			s := led.At(1.0)
			Expect(s.Kinetic).To(BeZero())
			Expect(s.Elastic).To(BeZero())
			Expect(s.Gravitational).To(BeNumerically("~", led.Total(), 1e-9))
			Expect(s.Velocity).To(BeZero())
		})

		It("holds everything in the mat at the lowest point", func() {
			s := led.At(0)
			Expect(s.Kinetic).To(BeZero())
			Expect(s.Gravitational).To(BeZero())
			Expect(s.Elastic).To(BeNumerically("~", led.Total(), 1e-9))
			Expect(s.Velocity).To(BeZero())
		})

		It("crosses the undeformed mat surface with all the flight energy kinetic or gravitational", func() {
			surface := led.At(0.5)
			Expect(surface.Elastic).To(BeZero())
			Expect(surface.Velocity).To(BeNumerically("~", math.Sqrt(9.81), 1e-9))
		})

		It("moves fastest where the mat balances gravity", func() {
			eq := led.MatDepth() - led.Mass()*led.Gravity()/led.Stiffness()
			vEq := led.SpeedAt(eq)

			Expect(eq).To(BeNumerically("~", 0.375, 1e-9))
			Expect(vEq).To(BeNumerically(">", led.SpeedAt(led.MatDepth())))
			for y := 0.0; y <= 1.0; y += 0.01 {
				Expect(led.SpeedAt(y)).To(BeNumerically("<=", vEq+1e-9))
			}
		})

		It("keeps the three stores summing to the budget inside the envelope", func() {
			for y := 0.0; y <= 1.0; y += 0.01 {
				s := led.At(y)
				Expect(s.Mechanical).To(BeNumerically("~", led.Total(), 1e-9))
			}
		})

		It("snaps near-zero heights to the lowest point", func() {
			Expect(led.At(0.0005).Height).To(BeZero())
			Expect(led.At(-0.0009).Height).To(BeZero())
			Expect(led.At(0.002).Height).NotTo(BeZero())
		})

		It("prices heights above the envelope to zero speed instead of NaN", func() {
			s := led.At(1.2)
			Expect(s.Velocity).To(BeZero())
			Expect(s.Kinetic).To(BeZero())
			Expect(math.IsNaN(s.Velocity)).To(BeFalse())
		})
	})

	Describe("mat deformation", func() {
		It("is zero in flight", func() {
			Expect(led.Compression(0.7)).To(BeZero())
			Expect(led.Compression(0.5)).To(BeZero())
		})

		It("grows below the surface", func() {
			Expect(led.Compression(0.2)).To(BeNumerically("~", 0.3, 1e-12))
			Expect(led.Compression(0.0)).To(BeNumerically("~", 0.5, 1e-12))
		})
	})

	Describe("sweeping a trajectory", func() {
		cosine := func(t float64) float64 {
			return 0.5 * (1 + math.Cos(t))
		}

		It("prices every sample of the reference oscillation", func() {
			series := led.Sweep(cosine, 0.05, 2*math.Pi)
			Expect(series.Len()).To(Equal(126))

			first := series.Samples[0]
			Expect(first.Height).To(BeNumerically("~", 1.0, 1e-12))
			Expect(first.Kinetic).To(BeZero())

			for _, s := range series.Samples {
				Expect(s.Mechanical).To(BeNumerically("~", led.Total(), 1e-9))
			}
		})

		It("returns an empty series for a degenerate window", func() {
			Expect(led.Sweep(cosine, 0, 1).Len()).To(BeZero())
			Expect(led.Sweep(cosine, 0.05, -1).Len()).To(BeZero())
		})
	})

	Describe("construction", func() {
		It("rejects non-physical parameters", func() {
			_, err := energy.NewLedger(0, 9.81, 0.5, 1.0, 0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			_, err = energy.NewLedger(90, -9.81, 0.5, 1.0, 0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			_, err = energy.NewLedger(90, 9.81, 0, 1.0, 0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			_, err = energy.NewLedger(90, 9.81, 0.5, 0, 0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			_, err = energy.NewLedger(90, 9.81, 0.5, 1.0, -5)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("accepts an explicit stiffness", func() {
			l, err := energy.NewLedger(90, 9.81, 0.5, 1.0, 5000)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Stiffness()).To(Equal(5000.0))
		})
	})
})
