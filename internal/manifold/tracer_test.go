package manifold_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/libration"
	"github.com/san-kum/libration/internal/linearize"
	"github.com/san-kum/libration/internal/manifold"
	"github.com/san-kum/libration/internal/physics"
	"github.com/san-kum/libration/internal/sim"
)

var _ = Describe("Tracer", func() {
	Describe("Earth-Moon L1", Ordered, func() {
		var res *manifold.Result

		BeforeAll(func() {
			var err error
			res, err = manifold.NewTracer(manifold.DefaultConfig(physics.MuEarthMoon)).Trace(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("locates L1 between the primaries", func() {
			Expect(res.Point).To(Equal(libration.L1))
			Expect(res.X).To(BeNumerically("~", 0.8369151258, 1e-9))
		})

		It("reports a saddle with equal and opposite real eigenvalues", func() {
			Expect(res.Unstable.Value).To(BeNumerically(">", 0))
			Expect(res.Stable.Value).To(BeNumerically("~", -res.Unstable.Value, 1e-9))
			Expect(res.Eigenvalues).To(HaveLen(4))
		})

		It("emits the four branches in a fixed order", func() {
			Expect(res.Branches).To(HaveLen(4))
			names := make([]string, len(res.Branches))
			for i, b := range res.Branches {
				names[i] = b.Name()
			}
			Expect(names).To(Equal([]string{"unstable+", "unstable-", "stable+", "stable-"}))
			Expect(res.Branches[0].Role()).To(Equal("drop"))
			Expect(res.Branches[3].Role()).To(Equal("lift"))
		})

		It("samples every branch on its own time grid", func() {
			for _, b := range res.Branches {
				tr := b.Trajectory
				Expect(tr.Len()).To(Equal(manifold.DefaultSamples))
				if b.Kind == linearize.Unstable {
					Expect(tr.Times[len(tr.Times)-1]).To(BeNumerically("~", manifold.DefaultHorizon, 1e-12))
				} else {
					Expect(tr.Times[len(tr.Times)-1]).To(BeNumerically("~", -manifold.DefaultHorizon, 1e-12))
				}
			}
		})

		It("starts each branch epsilon away from L1", func() {
			for _, b := range res.Branches {
				start := b.Trajectory.States[0]
				offset := start.Sub(dynamo.State{res.X, 0, 0, 0}).Norm()
				Expect(offset).To(BeNumerically("~", manifold.DefaultEpsilon, 1e-15))
			}
		})

		It("splits two branches to each side, one stable and one unstable", func() {
			Expect(res.Count(manifold.TowardSecondary)).To(Equal(2))
			Expect(res.Count(manifold.TowardPrimary)).To(Equal(2))

			for _, kind := range []linearize.Stability{linearize.Unstable, linearize.Stable} {
				seen := map[manifold.Classification]bool{}
				for _, b := range res.Branches {
					if b.Kind == kind {
						seen[b.Classification] = true
					}
				}
				Expect(seen).To(HaveLen(2), "kind %v", kind)
			}
		})

		It("agrees with the classification rule on every branch", func() {
			for _, b := range res.Branches {
				finalX := b.Trajectory.Final()[0]
				if finalX > res.X {
					Expect(b.Classification).To(Equal(manifold.TowardSecondary))
				} else {
					Expect(b.Classification).To(Equal(manifold.TowardPrimary))
				}
			}
		})

		It("keeps every branch on the L1 Jacobi level", func() {
			dyn := physics.NewCR3BP(res.Mu)
			cL1 := dyn.Jacobi(dynamo.State{res.X, 0, 0, 0})
			for _, b := range res.Branches {
				for _, s := range b.Trajectory.States {
					Expect(math.Abs(dyn.Jacobi(s) - cL1)).To(BeNumerically("<", 1e-6), b.Name())
				}
			}
		})
	})

	It("is deterministic", func() {
		cfg := manifold.DefaultConfig(physics.MuEarthMoon)
		cfg.Samples = 500
		cfg.Horizon = 3

		a, err := manifold.NewTracer(cfg).Trace(context.Background())
		Expect(err).NotTo(HaveOccurred())
		b, err := manifold.NewTracer(cfg).Trace(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for i := range a.Branches {
			Expect(a.Branches[i].Trajectory.States).To(Equal(b.Branches[i].Trajectory.States))
		}
	})

	It("keeps an unperturbed start at the libration point", func() {
		cfg := manifold.DefaultConfig(physics.MuEarthMoon)
		cfg.Epsilon = 0
		cfg.Horizon = 2
		cfg.Samples = 200

		res, err := manifold.NewTracer(cfg).Trace(context.Background())
		Expect(err).NotTo(HaveOccurred())
		for _, b := range res.Branches {
			Expect(b.Trajectory.Final().Sub(dynamo.State{res.X, 0, 0, 0}).Norm()).To(BeNumerically("<", 1e-8))
		}
	})

	It("traces L2 as well", func() {
		cfg := manifold.DefaultConfig(physics.MuEarthMoon)
		cfg.Point = libration.L2
		cfg.Horizon = 2
		cfg.Samples = 200

		res, err := manifold.NewTracer(cfg).Trace(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.X).To(BeNumerically("~", 1.1556821654, 1e-9))
		Expect(res.Branches).To(HaveLen(4))
	})

	DescribeTable("rejects bad configuration",
		func(mutate func(*manifold.Config), want error) {
			cfg := manifold.DefaultConfig(physics.MuEarthMoon)
			mutate(&cfg)
			res, err := manifold.NewTracer(cfg).Trace(context.Background())
			Expect(res).To(BeNil())
			Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
		},
		Entry("negative epsilon", func(c *manifold.Config) { c.Epsilon = -1 }, dynamo.ErrParameterBounds),
		Entry("zero horizon", func(c *manifold.Config) { c.Horizon = 0 }, dynamo.ErrParameterBounds),
		Entry("one sample", func(c *manifold.Config) { c.Samples = 1 }, dynamo.ErrParameterBounds),
		Entry("mass ratio out of range", func(c *manifold.Config) { c.Mu = 0.7 }, dynamo.ErrParameterBounds),
		Entry("unknown point", func(c *manifold.Config) { c.Point = libration.Point(9) }, dynamo.ErrParameterBounds),
		Entry("step budget exhausted", func(c *manifold.Config) {
			c.Horizon = 1
			c.Samples = 10
			c.Propagator = append(c.Propagator, sim.WithMaxSteps(3))
		}, dynamo.ErrDivergence),
	)
})

var _ = Describe("Classify", func() {
	traj := func(finalX float64) *dynamo.Trajectory {
		return &dynamo.Trajectory{
			Times:  []float64{0, 1},
			States: []dynamo.State{{0.8, 0, 0, 0}, {finalX, 0, 0, 0}},
		}
	}

	It("uses the sign of final x minus the libration x", func() {
		Expect(manifold.Classify(traj(0.9), 0.8369)).To(Equal(manifold.TowardSecondary))
		Expect(manifold.Classify(traj(0.1), 0.8369)).To(Equal(manifold.TowardPrimary))
		Expect(manifold.Classify(traj(0.8369), 0.8369)).To(Equal(manifold.TowardPrimary))
	})

	It("names classifications", func() {
		Expect(manifold.TowardSecondary.String()).To(Equal("toward-secondary"))
		Expect(manifold.TowardPrimary.String()).To(Equal("toward-primary"))
	})
})

var _ = Describe("Perturbation", func() {
	It("offsets the libration state along the direction", func() {
		dir := dynamo.State{0.6, 0, 0.8, 0}
		x0 := manifold.Perturbation{Epsilon: 1e-4, Sign: -1}.Apply(0.8, dir)
		Expect(x0[0]).To(BeNumerically("~", 0.8-0.6e-4, 1e-15))
		Expect(x0[2]).To(BeNumerically("~", -0.8e-4, 1e-15))
		Expect(dir[0]).To(Equal(0.6))
	})
})
