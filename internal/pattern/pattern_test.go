package pattern

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/pulsegrid/internal/palette"
)

const eps = 1e-9

var testSize = Size{Width: 400, Height: 800}

func unitDrive() Drive {
	p := DefaultParams()
	p.Speed = 1.0
	p.Brightness = 1.0
	p.LineWidth = 1.0
	return NewDrive(p, 1.0)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"signal_mesh", SignalMesh},
		{"Magnetic Field", MagneticField},
		{"heat-pulse", HeatPulse},
		{" STRESS_WAVE ", StressWave},
		{"neuro_spark", NeuroSpark},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMode("lava_lamp"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestModeTextRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		b, err := m.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Mode
		if err := back.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if back != m {
			t.Errorf("round trip %v -> %v", m, back)
		}
	}
	if _, err := Mode(9).MarshalText(); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestTickIntervals(t *testing.T) {
	want := map[Mode]time.Duration{
		SignalMesh:    50 * time.Millisecond,
		MagneticField: 50 * time.Millisecond,
		StressWave:    50 * time.Millisecond,
		HeatPulse:     100 * time.Millisecond,
		NeuroSpark:    100 * time.Millisecond,
	}
	for m, d := range want {
		if m.TickInterval() != d {
			t.Errorf("%v interval = %v, want %v", m, m.TickInterval(), d)
		}
	}
}

func TestParamsClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"in range", Params{Speed: 1, Brightness: 0.5, LineWidth: 2}, Params{Speed: 1, Brightness: 0.5, LineWidth: 2}},
		{"zero", Params{}, Params{Speed: MinSpeed, Brightness: MinBrightness, LineWidth: MinLineWidth}},
		{"negative speed", Params{Speed: -3, Brightness: 1, LineWidth: 1}, Params{Speed: MinSpeed, Brightness: 1, LineWidth: 1}},
		{"too high", Params{Speed: 9, Brightness: 3, LineWidth: 12}, Params{Speed: MaxSpeed, Brightness: MaxBrightness, LineWidth: MaxLineWidth}},
		{"nan", Params{Speed: math.NaN(), Brightness: 1, LineWidth: 1}, Params{Speed: MinSpeed, Brightness: 1, LineWidth: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDriveRate(t *testing.T) {
	d := NewDrive(Params{Speed: 2, Brightness: 1, LineWidth: 1}, 0.5)
	if got := d.Rate(); math.Abs(got-1.0) > eps {
		t.Errorf("Rate() = %f, want 1.0", got)
	}
	d.Intensity = 0
	if got := d.Rate(); math.Abs(got-MinIntensity*2) > eps {
		t.Errorf("Rate() with zero intensity = %f, want %f", got, MinIntensity*2)
	}
}

func TestRegistryBuildsEveryMode(t *testing.T) {
	r := NewRegistry()
	for _, m := range Modes() {
		g, err := r.New(m, testSize, NewSource(1))
		if err != nil {
			t.Fatalf("%v: %v", m, err)
		}
		if g.Mode() != m {
			t.Errorf("generator mode = %v, want %v", g.Mode(), m)
		}
		if g.Phase() != 0 {
			t.Errorf("%v: fresh phase = %f", m, g.Phase())
		}
		if f := g.Frame(unitDrive()); f.Len() == 0 || f.Mode != m {
			t.Errorf("%v: empty or mislabelled frame", m)
		}
	}

	if _, err := r.New(Mode(42), testSize, NewSource(1)); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
	if _, err := r.New(SignalMesh, Size{}, NewSource(1)); !errors.Is(err, ErrEmptyCanvas) {
		t.Errorf("expected ErrEmptyCanvas, got %v", err)
	}
}

func TestPhaseIsLinearInTicks(t *testing.T) {
	d := NewDrive(Params{Speed: 0.8, Brightness: 1, LineWidth: 1}, 0.6)
	r := NewRegistry()
	for _, m := range Modes() {
		g, _ := r.New(m, testSize, NewSource(3))
		const n = 37
		for i := 0; i < n; i++ {
			g.Advance(d)
		}
		want := n * m.PhaseStep() * 0.6 * 0.8
		if math.Abs(g.Phase()-want) > 1e-9 {
			t.Errorf("%v: phase after %d ticks = %f, want %f", m, n, g.Phase(), want)
		}
	}
}

func TestSignalMeshScenario(t *testing.T) {
	g := NewSignalMesh(testSize)
	for i := 0; i < 10; i++ {
		g.Advance(unitDrive())
	}
	if math.Abs(g.Phase()-1.0) > eps {
		t.Errorf("phase after 10 ticks = %f, want 1.0", g.Phase())
	}
}

func TestPhaseFramesAreDeterministic(t *testing.T) {
	d := unitDrive()
	funcs := map[string]func(float64, Drive, Size) Frame{
		"signal_mesh": SignalMeshFrame,
		"heat_pulse":  HeatPulseFrame,
		"stress_wave": StressWaveFrame,
	}
	for name, fn := range funcs {
		a := fn(1.234, d, testSize)
		b := fn(1.234, d, testSize)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: identical inputs produced different frames", name)
		}
	}
}

func TestSignalMeshFormulas(t *testing.T) {
	d := unitDrive()
	d.Params.Brightness = 0.5
	phase := 0.7
	f := SignalMeshFrame(phase, d, testSize)

	if len(f.Lines) != meshCols+meshRows {
		t.Fatalf("expected %d lines, got %d", meshCols+meshRows, len(f.Lines))
	}
	if len(f.Circles) != meshRows*meshCols {
		t.Fatalf("expected %d nodes, got %d", meshRows*meshCols, len(f.Circles))
	}

	for col := 0; col < meshCols; col++ {
		want := 0.3 + 0.7*math.Sin(phase+float64(col)*0.5)*0.5
		if got := f.Lines[col].Opacity; math.Abs(got-want) > eps {
			t.Errorf("vertical %d opacity = %f, want %f", col, got, want)
		}
		if x := f.Lines[col].From.X; math.Abs(x-testSize.Width/5*float64(col)) > eps {
			t.Errorf("vertical %d at x=%f", col, x)
		}
	}
	for row := 0; row < meshRows; row++ {
		want := 0.3 + 0.7*math.Sin(phase+float64(row)*0.5)*0.5
		if got := f.Lines[meshCols+row].Opacity; math.Abs(got-want) > eps {
			t.Errorf("horizontal %d opacity = %f, want %f", row, got, want)
		}
	}

	row, col := 3, 4
	node := f.Circles[row*meshCols+col]
	k := float64(row + col)
	if want := 0.5 + 0.5*math.Sin(phase+k*0.3); math.Abs(node.Opacity-want) > eps {
		t.Errorf("node opacity = %f, want %f", node.Opacity, want)
	}
	if want := 1 + 0.5*math.Sin(phase+k*0.2); math.Abs(node.Scale-want) > eps {
		t.Errorf("node scale = %f, want %f", node.Scale, want)
	}
	if node.Center != (Point{testSize.Width / 5 * 4, testSize.Height / 7 * 3}) {
		t.Errorf("node centre = %+v", node.Center)
	}
}

func TestHeatPulseFormulas(t *testing.T) {
	d := unitDrive()
	d.Params.Brightness = 0.8
	phase := 2.0
	f := HeatPulseFrame(phase, d, testSize)
	if len(f.Circles) != heatRings+heatSpots {
		t.Fatalf("expected %d circles, got %d", heatRings+heatSpots, len(f.Circles))
	}

	for k := 0; k < heatRings; k++ {
		c := f.Circles[k]
		fk := float64(k)
		if want := 0.5 + 0.5*math.Sin(phase-fk*0.5); math.Abs(c.Scale-want) > eps {
			t.Errorf("ring %d scale = %f, want %f", k, c.Scale, want)
		}
		if want := (0.3 + 0.4*math.Sin(phase-fk*0.3)) * 0.8; math.Abs(c.Opacity-want) > eps {
			t.Errorf("ring %d opacity = %f, want %f", k, c.Opacity, want)
		}
		if c.Center != testSize.Center() {
			t.Errorf("ring %d off centre", k)
		}
	}

	centre := testSize.Center()
	for k := 0; k < heatSpots; k++ {
		c := f.Circles[heatRings+k]
		fk := float64(k)
		if r := math.Hypot(c.Center.X-centre.X, c.Center.Y-centre.Y); math.Abs(r-150) > 1e-6 {
			t.Errorf("spot %d orbit radius = %f", k, r)
		}
		angle := math.Atan2(c.Center.Y-centre.Y, c.Center.X-centre.X)
		want := math.Remainder(fk*math.Pi/4+phase*0.5, 2*math.Pi)
		if math.Abs(math.Remainder(angle-want, 2*math.Pi)) > 1e-9 {
			t.Errorf("spot %d angle = %f, want %f", k, angle, want)
		}
		if want := 0.4 + 0.6*math.Sin(phase+fk*0.2); math.Abs(c.Opacity-want) > eps {
			t.Errorf("spot %d opacity = %f, want %f", k, c.Opacity, want)
		}
	}
}

func TestStressWaveFormulas(t *testing.T) {
	d := NewDrive(Params{Speed: 1.5, Brightness: 1, LineWidth: 2}, 0.5)
	phase := 0.3
	f := StressWaveFrame(phase, d, testSize)

	if len(f.Polylines) != stressScanlines {
		t.Fatalf("expected %d scanlines, got %d", stressScanlines, len(f.Polylines))
	}
	if len(f.Lines) != stressStressLines {
		t.Fatalf("expected %d stress lines, got %d", stressStressLines, len(f.Lines))
	}

	line := f.Polylines[7]
	if got := len(line.Points); got != 101 {
		t.Errorf("expected 101 samples across 400 units, got %d", got)
	}
	baseY := testSize.Height / 19 * 7
	for _, i := range []int{0, 10, 100} {
		pt := line.Points[i]
		want := baseY + math.Sin(phase+pt.X*0.02+0.7)*20*0.5*1.5
		if math.Abs(pt.Y-want) > eps {
			t.Errorf("sample %d y = %f, want %f", i, pt.Y, want)
		}
		if pt.X != float64(i)*4 {
			t.Errorf("sample %d x = %f", i, pt.X)
		}
	}

	for k, l := range f.Lines {
		if want := 0.3 + 0.4*math.Sin(phase+float64(k)*0.3); math.Abs(l.Opacity-want) > eps {
			t.Errorf("stress line %d opacity = %f, want %f", k, l.Opacity, want)
		}
	}
}

func TestWrapAxis(t *testing.T) {
	tests := []struct {
		v, extent, want float64
	}{
		{0, 100, 0},
		{50, 100, 50},
		{100, 100, 0},
		{100.5, 100, 0.5},
		{-1, 100, 99},
		{-100, 100, 0},
		{250, 100, 50},
		{-1e-18, 100, 0},
	}
	for _, tt := range tests {
		if got := wrapAxis(tt.v, tt.extent); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("wrapAxis(%g, %g) = %g, want %g", tt.v, tt.extent, got, tt.want)
		}
	}
}

func TestParticlesStayOnTorus(t *testing.T) {
	size := Size{Width: 120, Height: 90}
	pool := NewParticlePool(size, ParticleCount, NewSource(11))
	if pool.Len() != ParticleCount {
		t.Fatalf("expected %d particles, got %d", ParticleCount, pool.Len())
	}
	sizes := make([]float64, pool.Len())
	for i, p := range pool.Particles() {
		sizes[i] = p.Size
	}

	for step := 0; step < 2000; step++ {
		pool.Step(2.0)
		for _, p := range pool.Particles() {
			if p.Pos.X < 0 || p.Pos.X >= size.Width || p.Pos.Y < 0 || p.Pos.Y >= size.Height {
				t.Fatalf("step %d: particle %d escaped to %+v", step, p.ID, p.Pos)
			}
		}
	}

	for i, p := range pool.Particles() {
		if p.Size != sizes[i] {
			t.Errorf("particle %d size changed from %f to %f", i, sizes[i], p.Size)
		}
	}
}

func TestParticleStepFollowsField(t *testing.T) {
	// centre of testSize is (200, 400)
	pool := NewParticlePool(testSize, 2, NewSource(3))
	pool.particles[0] = Particle{ID: 0, Pos: Point{100, 400}, Angle: 0, Speed: 2}
	pool.particles[1] = Particle{ID: 1, Pos: Point{200, 430}, Angle: math.Pi / 2, Speed: 1}

	pool.Step(0.5)
	got := pool.Particles()

	// r = 100: force 200/101, turn 200/101 * 0.01 * 0.5
	angle := 0.5 * 0.01 * 200.0 / 101.0
	if math.Abs(got[0].Angle-angle) > eps {
		t.Errorf("angle = %.12f, want %.12f", got[0].Angle, angle)
	}
	want := Point{100 + math.Cos(angle)*2*0.5, 400 + math.Sin(angle)*2*0.5}
	if math.Abs(got[0].Pos.X-want.X) > eps || math.Abs(got[0].Pos.Y-want.Y) > eps {
		t.Errorf("pos = %+v, want %+v", got[0].Pos, want)
	}
	if math.Abs(got[0].Pos.X-100.99995098) > 1e-6 || math.Abs(got[0].Pos.Y-400.00990083) > 1e-6 {
		t.Errorf("pos = %+v, want about (100.99995, 400.00990)", got[0].Pos)
	}

	// r = 30: force 200/31
	angle = math.Pi/2 + 0.5*0.01*200.0/31.0
	if math.Abs(got[1].Angle-angle) > eps {
		t.Errorf("angle = %.12f, want %.12f", got[1].Angle, angle)
	}
	want = Point{200 + math.Cos(angle)*0.5, 430 + math.Sin(angle)*0.5}
	if math.Abs(got[1].Pos.X-want.X) > eps || math.Abs(got[1].Pos.Y-want.Y) > eps {
		t.Errorf("pos = %+v, want %+v", got[1].Pos, want)
	}
}

func TestParticleShimmerIgnoresMotion(t *testing.T) {
	pool := NewParticlePool(testSize, ParticleCount, NewSource(5))
	for i := 0; i < 9; i++ {
		pool.Step(0.5)
	}
	want := 9 * 0.05 * 0.5
	if math.Abs(pool.Time()-want) > eps {
		t.Fatalf("time = %f, want %f", pool.Time(), want)
	}
	for i, p := range pool.Particles() {
		if exp := 0.3 + 0.5*math.Sin(pool.Time()+float64(i)*0.1); math.Abs(p.Opacity-exp) > eps {
			t.Errorf("particle %d opacity = %f, want %f", i, p.Opacity, exp)
		}
	}
}

func TestParticleInitialRanges(t *testing.T) {
	pool := NewParticlePool(testSize, ParticleCount, NewSource(99))
	for _, p := range pool.Particles() {
		if p.Speed < 1 || p.Speed > 3 {
			t.Errorf("speed %f out of [1,3]", p.Speed)
		}
		if p.Size < 4 || p.Size > 12 {
			t.Errorf("size %f out of [4,12]", p.Size)
		}
		if p.Opacity < 0.3 || p.Opacity > 0.8 {
			t.Errorf("opacity %f out of [0.3,0.8]", p.Opacity)
		}
	}
}

func TestSeededSetupIsReproducible(t *testing.T) {
	a := NewMagneticField(testSize, NewSource(2024)).Frame(unitDrive())
	b := NewMagneticField(testSize, NewSource(2024)).Frame(unitDrive())
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different particle fields")
	}

	ga := NewGraph(testSize, NodeCount, ConnectionAttempts, NewSource(7))
	gb := NewGraph(testSize, NodeCount, ConnectionAttempts, NewSource(7))
	if !reflect.DeepEqual(ga.Connections(), gb.Connections()) {
		t.Error("same seed produced different topologies")
	}
}

func TestGraphTopology(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		g := NewGraph(testSize, NodeCount, ConnectionAttempts, NewSource(seed))
		if len(g.Nodes()) != NodeCount {
			t.Fatalf("seed %d: %d nodes", seed, len(g.Nodes()))
		}
		conns := g.Connections()
		if len(conns) > ConnectionAttempts {
			t.Fatalf("seed %d: %d connections", seed, len(conns))
		}
		for _, c := range conns {
			if c.Start == c.End {
				t.Errorf("seed %d: self loop on node %d", seed, c.Start)
			}
			if _, ok := g.Node(c.Start); !ok {
				t.Errorf("seed %d: dangling start %d", seed, c.Start)
			}
			if _, ok := g.Node(c.End); !ok {
				t.Errorf("seed %d: dangling end %d", seed, c.End)
			}
		}
		for _, n := range g.Nodes() {
			if n.Pos.X < 50 || n.Pos.X > testSize.Width-50 || n.Pos.Y < 100 || n.Pos.Y > testSize.Height-100 {
				t.Errorf("seed %d: node %d outside margins at %+v", seed, n.ID, n.Pos)
			}
		}
	}
}

func TestGraphCollapsesMarginsOnSmallCanvas(t *testing.T) {
	size := Size{Width: 80, Height: 150}
	g := NewGraph(size, NodeCount, ConnectionAttempts, NewSource(1))
	for _, n := range g.Nodes() {
		if n.Pos != size.Center() {
			t.Errorf("node %d at %+v, want centre", n.ID, n.Pos)
		}
	}
}

func TestNeuroSparkAnimation(t *testing.T) {
	gen := NewNeuroSpark(testSize, NewSource(8)).(*neuroSpark)
	d := unitDrive()
	for i := 0; i < 4; i++ {
		gen.Advance(d)
	}
	phase := gen.Phase()
	if math.Abs(phase-0.4) > eps {
		t.Fatalf("spark phase = %f, want 0.4", phase)
	}
	for i, n := range gen.Graph().Nodes() {
		fi := float64(i)
		if want := 0.5 + 0.5*math.Sin(phase+fi*0.2); math.Abs(n.Opacity-want) > eps {
			t.Errorf("node %d opacity = %f, want %f", i, n.Opacity, want)
		}
		if want := 0.8 + 0.4*math.Sin(phase+fi*0.15); math.Abs(n.Scale-want) > eps {
			t.Errorf("node %d scale = %f, want %f", i, n.Scale, want)
		}
	}
	for i, c := range gen.Graph().Connections() {
		fi := float64(i)
		if want := 0.2 + 0.4*math.Sin(phase+fi*0.3); math.Abs(c.Opacity-want) > eps {
			t.Errorf("connection %d opacity = %f, want %f", i, c.Opacity, want)
		}
		if want := 0.3 + 0.5*math.Sin(phase+fi*0.25); math.Abs(c.Intensity-want) > eps {
			t.Errorf("connection %d intensity = %f, want %f", i, c.Intensity, want)
		}
	}
}

func TestNeuroSparkBrightnessScalesPaint(t *testing.T) {
	gen := NewNeuroSpark(testSize, NewSource(21))
	gen.Advance(unitDrive())

	bright := gen.Frame(unitDrive())
	dim := unitDrive()
	dim.Params.Brightness = 0.1
	faint := gen.Frame(dim)

	if reflect.DeepEqual(bright.Circles, faint.Circles) {
		t.Fatal("node paint ignores brightness")
	}
	for i := range bright.Circles {
		for s := range bright.Circles[i].Paint {
			want := bright.Circles[i].Paint[s].Color.A * 0.1
			if got := faint.Circles[i].Paint[s].Color.A; math.Abs(got-want) > eps {
				t.Errorf("node %d stop %d alpha = %f, want %f", i, s, got, want)
			}
		}
	}
	for i := range bright.Lines {
		want := bright.Lines[i].Paint[0].Color.A * 0.1
		if got := faint.Lines[i].Paint[0].Color.A; math.Abs(got-want) > eps {
			t.Errorf("edge %d alpha = %f, want %f", i, got, want)
		}
	}
}

func TestNeuroSparkSkipsMissingNodes(t *testing.T) {
	gen := NewNeuroSpark(testSize, NewSource(13)).(*neuroSpark)
	conns := gen.Graph().Connections()
	if len(conns) == 0 {
		t.Skip("seed produced no connections")
	}

	full := gen.Frame(unitDrive())
	if len(full.Lines) != len(conns) || gen.Skipped() != 0 {
		t.Fatalf("expected all %d connections drawn, got %d (skipped %d)", len(conns), len(full.Lines), gen.Skipped())
	}

	victim := conns[0].Start
	affected := 0
	for _, c := range conns {
		if c.Start == victim || c.End == victim {
			affected++
		}
	}
	if !gen.Graph().RemoveNode(victim) {
		t.Fatal("remove failed")
	}
	if gen.Graph().RemoveNode(victim) {
		t.Error("second remove should report false")
	}

	f := gen.Frame(unitDrive())
	if got := len(f.Lines); got != len(conns)-affected {
		t.Errorf("expected %d edges after removal, got %d", len(conns)-affected, got)
	}
	if gen.Skipped() != affected {
		t.Errorf("Skipped() = %d, want %d", gen.Skipped(), affected)
	}
	if len(f.Circles) != NodeCount-1 {
		t.Errorf("expected %d nodes drawn, got %d", NodeCount-1, len(f.Circles))
	}
	for _, n := range gen.Graph().Nodes() {
		got, ok := gen.Graph().Node(n.ID)
		if !ok || got.ID != n.ID {
			t.Errorf("index out of sync for node %d", n.ID)
		}
	}
}

func TestFramesUseScheme(t *testing.T) {
	d := unitDrive()
	d.Params.Scheme = palette.Fire
	f := SignalMeshFrame(0, d, testSize)
	if got := f.Lines[0].Paint.Base().Hex(); got != palette.Fire.Accent.Hex() {
		t.Errorf("mesh lines painted %s, want accent %s", got, palette.Fire.Accent.Hex())
	}
}

func TestAlphaClamps(t *testing.T) {
	l := Line{Opacity: -0.4}
	c := Circle{Opacity: 1.3}
	if l.Alpha() != 0 || c.Alpha() != 1 {
		t.Errorf("Alpha() did not clamp: %f %f", l.Alpha(), c.Alpha())
	}
}
