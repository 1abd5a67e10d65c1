package engine

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pulsegrid/internal/pattern"
)

var _ = Describe("Engine lifecycle", func() {
	var e *Engine

	BeforeEach(func() {
		var err error
		e, err = New(pattern.Size{Width: 640, Height: 480}, WithSeed(3))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		e.Close()
	})

	It("starts with nothing active", func() {
		Expect(e.Active()).To(BeEmpty())
		Expect(e.Running()).To(BeTrue())
	})

	It("allocates pools sized per mode on activation", func() {
		mf, err := e.Activate(pattern.MagneticField)
		Expect(err).NotTo(HaveOccurred())
		Expect(mf.Latest().Circles).To(HaveLen(pattern.ParticleCount))

		ns, err := e.Activate(pattern.NeuroSpark)
		Expect(err).NotTo(HaveOccurred())
		Expect(ns.Latest().Circles).To(HaveLen(pattern.NodeCount))
		Expect(len(ns.Latest().Lines)).To(BeNumerically("<=", pattern.ConnectionAttempts))

		Expect(e.Active()).To(Equal([]pattern.Mode{pattern.MagneticField, pattern.NeuroSpark}))
	})

	It("uses the mode's own tick interval", func() {
		for _, m := range pattern.Modes() {
			inst, err := e.Activate(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Clock().Interval()).To(Equal(m.TickInterval()))
		}
	})

	Context("when paused", func() {
		BeforeEach(func() {
			_, err := e.Activate(pattern.HeatPulse)
			Expect(err).NotTo(HaveOccurred())
			e.SetRunning(false)
		})

		It("keeps returning the frozen frame", func() {
			d := pattern.NewDrive(pattern.DefaultParams(), 1)
			first, err := e.Tick(pattern.HeatPulse, d)
			Expect(err).NotTo(HaveOccurred())
			second, _ := e.Tick(pattern.HeatPulse, d)
			Expect(second.Phase).To(Equal(first.Phase))
			Expect(second.Phase).To(BeZero())
		})

		It("resumes from the frozen phase", func() {
			d := pattern.NewDrive(pattern.DefaultParams(), 1)
			e.Tick(pattern.HeatPulse, d)
			e.SetRunning(true)
			f, _ := e.Tick(pattern.HeatPulse, d)
			Expect(f.Phase).To(BeNumerically("~", 0.05*0.5, 1e-12))
		})
	})

	It("reports inactive modes", func() {
		_, err := e.Latest(pattern.StressWave)
		Expect(err).To(MatchError(ErrInactive))
	})
})
