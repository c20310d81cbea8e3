package intercept_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/intercept"
	"github.com/san-kum/libration/internal/metrics"
	"github.com/san-kum/libration/internal/physics"
)

func maxRadius(tr *dynamo.Trajectory) float64 {
	return metrics.Apply(tr, metrics.NewMaxRadius())["max_radius"]
}

var _ = Describe("Scenario", func() {
	Describe("DepartureState", func() {
		It("offsets along x and kicks along vy", func() {
			x := intercept.DepartureState(1.01, 1e-5, 0.15)
			Expect(x).To(Equal(dynamo.State{1.01 + 1e-5, 0, 0, 0.15}))
		})
	})

	Describe("Sun-Earth L2 with the default kick", Ordered, func() {
		var res *intercept.Result

		BeforeAll(func() {
			var err error
			res, err = intercept.NewScenario(intercept.DefaultConfig(physics.MuSunEarth)).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("departs from L2", func() {
			Expect(res.Departure.L2).To(BeNumerically("~", 1.0100341164, 1e-9))
			Expect(res.Departure.State[0]).To(BeNumerically("~", res.Departure.L2+intercept.DefaultOffset, 1e-15))
			Expect(res.Departure.State[3]).To(Equal(intercept.DefaultKick))
			Expect(res.Trajectory.States[0]).To(Equal(res.Departure.State))
		})

		It("samples the full horizon", func() {
			Expect(res.Trajectory.Len()).To(Equal(intercept.DefaultSamples))
			Expect(res.Trajectory.Times[res.Trajectory.Len()-1]).To(BeNumerically("~", intercept.DefaultHorizon, 1e-12))
		})

		It("climbs past the barrier and the Mars orbit", func() {
			Expect(maxRadius(res.Trajectory)).To(BeNumerically(">", intercept.BarrierRadius))
			Expect(maxRadius(res.Trajectory)).To(BeNumerically(">", intercept.MarsOrbitRadius))

			hit, _ := metrics.Breaches(res.Trajectory, intercept.MarsOrbitRadius)
			Expect(hit).To(BeTrue())
		})
	})

	Describe("without a kick", func() {
		It("stays inside the barrier", func() {
			cfg := intercept.DefaultConfig(physics.MuSunEarth)
			cfg.Kick = 0

			res, err := intercept.NewScenario(cfg).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(maxRadius(res.Trajectory)).To(BeNumerically("<", intercept.BarrierRadius))
		})
	})

	DescribeTable("rejects bad configurations",
		func(mutate func(*intercept.Config)) {
			cfg := intercept.DefaultConfig(physics.MuSunEarth)
			mutate(&cfg)

			_, err := intercept.NewScenario(cfg).Run(context.Background())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		},
		Entry("zero horizon", func(c *intercept.Config) { c.Horizon = 0 }),
		Entry("one sample", func(c *intercept.Config) { c.Samples = 1 }),
		Entry("mass ratio out of range", func(c *intercept.Config) { c.Mu = 0.7 }),
	)

	It("stops on a canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := intercept.NewScenario(intercept.DefaultConfig(physics.MuSunEarth)).Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})
