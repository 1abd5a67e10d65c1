package layout

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pulsegrid/internal/pattern"
)

func panels(modes ...pattern.Mode) []Panel {
	out := make([]Panel, len(modes))
	for i, m := range modes {
		out[i] = Panel{Mode: m, Settings: pattern.DefaultParams()}
	}
	return out
}

var _ = Describe("Compose", func() {
	DescribeTable("fixed position table",
		func(total int, want []Rect) {
			modes := pattern.Modes()[:total]
			layouts, err := Compose(panels(modes...))
			Expect(err).NotTo(HaveOccurred())
			Expect(layouts).To(HaveLen(total))
			for i, l := range layouts {
				Expect(l.Position).To(Equal(want[i]), "panel %d of %d", i, total)
				Expect(l.Mode).To(Equal(modes[i]))
			}
		},
		Entry("one panel", 1, []Rect{{0, 0, 1, 1}}),
		Entry("two panels", 2, []Rect{{0, 0, 0.5, 1}, {0.5, 0, 0.5, 1}}),
		Entry("three panels", 3, []Rect{{0, 0, 1, 0.5}, {0, 0.5, 0.5, 0.5}, {0.5, 0.5, 0.5, 0.5}}),
		Entry("four panels", 4, []Rect{{0, 0, 0.5, 0.5}, {0.5, 0, 0.5, 0.5}, {0, 0.5, 0.5, 0.5}, {0.5, 0.5, 0.5, 0.5}}),
	)

	DescribeTable("rejects invalid panel counts",
		func(n int) {
			modes := make([]pattern.Mode, n)
			_, err := Compose(panels(modes...))
			Expect(err).To(MatchError(ErrInvalidPanelCount))
		},
		Entry("empty", 0),
		Entry("five", 5),
		Entry("eight", 8),
	)

	It("tiles the unit square for every valid count", func() {
		for total := 1; total <= MaxPanels; total++ {
			layouts, err := Compose(panels(pattern.Modes()[:total]...))
			Expect(err).NotTo(HaveOccurred())

			area := 0.0
			for _, l := range layouts {
				area += l.Position.Area()
			}
			Expect(area).To(BeNumerically("~", 1.0, 1e-12))

			// Sample cell centres on a fine grid: each must fall in exactly one rect.
			const n = 20
			for ix := 0; ix < n; ix++ {
				for iy := 0; iy < n; iy++ {
					x, y := (float64(ix)+0.5)/n, (float64(iy)+0.5)/n
					hits := 0
					for _, l := range layouts {
						if l.Position.Contains(x, y) {
							hits++
						}
					}
					Expect(hits).To(Equal(1), "point (%.3f, %.3f) with %d panels", x, y, total)
				}
			}
		}
	})

	It("defaults blank labels to the mode name", func() {
		in := panels(pattern.HeatPulse, pattern.NeuroSpark)
		in[1].Label = "synapses"
		layouts, err := Compose(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(layouts[0].Label).To(Equal("Heat Pulse"))
		Expect(layouts[1].Label).To(Equal("synapses"))
	})

	It("snapshots the settings it was given", func() {
		in := panels(pattern.StressWave)
		in[0].Settings.Speed = 1.7
		layouts, _ := Compose(in)
		in[0].Settings.Speed = 0.2
		Expect(layouts[0].Settings.Speed).To(Equal(1.7))
	})
})

var _ = Describe("NewMoodboard", func() {
	now := time.Date(2025, 7, 18, 12, 0, 0, 0, time.UTC)

	It("stamps id and creation time", func() {
		mb, err := NewMoodboard("Night Shift", panels(pattern.SignalMesh, pattern.HeatPulse, pattern.StressWave), now)
		Expect(err).NotTo(HaveOccurred())
		Expect(mb.ID).To(Equal("night-shift_1752840000"))
		Expect(mb.CreatedAt).To(Equal(now))
		Expect(mb.Layouts).To(HaveLen(3))
	})

	It("requires a name", func() {
		_, err := NewMoodboard("", panels(pattern.SignalMesh), now)
		Expect(err).To(HaveOccurred())
	})

	It("propagates the panel count error", func() {
		_, err := NewMoodboard("empty", nil, now)
		Expect(err).To(MatchError(ErrInvalidPanelCount))
	})
})
