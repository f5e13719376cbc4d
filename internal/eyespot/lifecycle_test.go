package eyespot_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/sim"
)

var _ = Describe("Foci registry", func() {
	var foci *eyespot.Foci

	BeforeEach(func() {
		foci = eyespot.NewFoci(5)
	})

	It("starts unset", func() {
		Expect(foci.IsSet()).To(BeFalse())
		Expect(foci.Positions()).To(BeNil())
	})

	It("becomes active on an empty add", func() {
		Expect(foci.Add()).To(Succeed())
		Expect(foci.IsSet()).To(BeTrue())
		Expect(foci.Positions()).To(BeEmpty())
		Expect(foci.Positions()).NotTo(BeNil())
	})

	It("keeps insertion order and duplicates", func() {
		Expect(foci.Add(eyespot.Pos{Row: 1, Col: 1}, eyespot.Pos{Row: 0, Col: 4})).To(Succeed())
		Expect(foci.Add(eyespot.Pos{Row: 1, Col: 1})).To(Succeed())
		Expect(foci.Positions()).To(Equal([]eyespot.Pos{{Row: 1, Col: 1}, {Row: 0, Col: 4}, {Row: 1, Col: 1}}))
	})

	It("removes the first occurrence only", func() {
		Expect(foci.Add(eyespot.Pos{Row: 1, Col: 1}, eyespot.Pos{Row: 2, Col: 2}, eyespot.Pos{Row: 1, Col: 1})).To(Succeed())
		Expect(foci.Remove(eyespot.Pos{Row: 1, Col: 1})).To(Succeed())
		Expect(foci.Positions()).To(Equal([]eyespot.Pos{{Row: 2, Col: 2}, {Row: 1, Col: 1}}))
	})

	It("leaves the registry unchanged when any removal is missing", func() {
		Expect(foci.Add(eyespot.Pos{Row: 1, Col: 1}, eyespot.Pos{Row: 2, Col: 2})).To(Succeed())
		err := foci.Remove(eyespot.Pos{Row: 1, Col: 1}, eyespot.Pos{Row: 3, Col: 3})
		Expect(err).To(MatchError(dynamo.ErrNotFound))
		Expect(foci.Len()).To(Equal(2))
	})

	It("reports removal from an unset registry as not found", func() {
		Expect(foci.Remove(eyespot.Pos{Row: 0, Col: 0})).To(MatchError(dynamo.ErrNotFound))
	})

	It("rejects positions outside the grid", func() {
		Expect(foci.Add(eyespot.Pos{Row: 5, Col: 0})).To(MatchError(dynamo.ErrConfiguration))
		Expect(foci.Sync(eyespot.Pos{Row: 0, Col: -1})).To(MatchError(dynamo.ErrConfiguration))
		Expect(foci.IsSet()).To(BeFalse())
	})

	It("replaces the list on sync and forgets it on reset", func() {
		Expect(foci.Add(eyespot.Pos{Row: 1, Col: 1})).To(Succeed())
		Expect(foci.Sync(eyespot.Pos{Row: 4, Col: 4})).To(Succeed())
		Expect(foci.Positions()).To(Equal([]eyespot.Pos{{Row: 4, Col: 4}}))

		foci.Reset()
		Expect(foci.IsSet()).To(BeFalse())
	})
})

var _ = Describe("Run lifecycle", func() {
	var (
		model *eyespot.Model
		span  sim.Span
		times []float64
	)

	BeforeEach(func() {
		p := eyespot.DefaultParams()
		p.GridSize = 5
		p.AInit = 1
		var err error
		model, err = eyespot.NewModel(p)
		Expect(err).NotTo(HaveOccurred())

		span = sim.Span{Start: 0, End: 1}
		times, err = sim.EvalGrid(span, 0.5)
		Expect(err).NotTo(HaveOccurred())
	})

	It("applies foci to the source field and restores the default after removal", func() {
		Expect(model.Foci().Add(eyespot.Pos{Row: 0, Col: 0}, eyespot.Pos{Row: 4, Col: 4})).To(Succeed())

		run, err := model.NewRun(span, times, eyespot.RunOptions{})
		Expect(err).NotTo(HaveOccurred())
		_, err = run.Solve(context.Background())
		Expect(err).NotTo(HaveOccurred())

		a0, err := run.SourceField()
		Expect(err).NotTo(HaveOccurred())
		Expect(a0.At(0, 0)).To(Equal(20.0))
		Expect(a0.At(4, 4)).To(Equal(20.0))
		Expect(a0.At(2, 2)).To(Equal(1.0))

		Expect(model.Foci().Remove(eyespot.Pos{Row: 0, Col: 0})).To(Succeed())
		_, a0 = model.InitialConditions()
		Expect(a0.At(0, 0)).To(Equal(1.0))
		Expect(a0.At(4, 4)).To(Equal(20.0))
	})

	It("overrides the precursor at foci", func() {
		Expect(model.Foci().Add(eyespot.Pos{Row: 3, Col: 1})).To(Succeed())
		y0, _ := model.InitialConditions()
		f, err := model.Codec().Decode(y0)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.P0.At(3, 1)).To(Equal(0.0))
		Expect(f.P0.At(1, 3)).To(Equal(0.2))
	})

	It("walks Configured, InitialConditionsBuilt and Solved", func() {
		run, err := model.NewRun(span, times, eyespot.RunOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Phase()).To(Equal(eyespot.PhaseConfigured))

		_, err = run.InitialState()
		Expect(err).To(MatchError(dynamo.ErrConfiguration))

		Expect(run.Build()).To(Succeed())
		Expect(run.Phase()).To(Equal(eyespot.PhaseInitialConditionsBuilt))

		sol, err := run.Solve(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Phase()).To(Equal(eyespot.PhaseSolved))
		Expect(run.Solution()).To(BeIdenticalTo(sol))
		Expect(sol.Len()).To(Equal(3))

		_, err = run.Solve(context.Background())
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})

	It("snapshots the registry when initial conditions are built", func() {
		run, err := model.NewRun(span, times, eyespot.RunOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Build()).To(Succeed())

		Expect(model.Foci().Add(eyespot.Pos{Row: 2, Col: 2})).To(Succeed())

		a0, err := run.SourceField()
		Expect(err).NotTo(HaveOccurred())
		Expect(a0.At(2, 2)).To(Equal(1.0))
	})

	It("fails with an integration error when canceled", func() {
		run, err := model.NewRun(span, times, eyespot.RunOptions{})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = run.Solve(ctx)
		Expect(err).To(MatchError(dynamo.ErrIntegration))
		Expect(err).To(MatchError(context.Canceled))
		Expect(run.Phase()).To(Equal(eyespot.PhaseFailed))
		Expect(run.Err()).To(HaveOccurred())
		Expect(run.Solution()).To(BeNil())
	})

	It("runs independent solves from the same model", func() {
		sol1, err := model.Solve(context.Background(), span, times, eyespot.RunOptions{})
		Expect(err).NotTo(HaveOccurred())
		sol2, err := model.Solve(context.Background(), span, times, eyespot.RunOptions{})
		Expect(err).NotTo(HaveOccurred())

		sol1.States[0][0] = 99
		Expect(sol2.States[0][0]).NotTo(Equal(99.0))
	})
})
