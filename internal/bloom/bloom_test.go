package bloom

import (
	"math"
	"testing"

	"hdr-scene/internal/framebuffer"
	"hdr-scene/internal/gpu/gputest"
	"hdr-scene/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

func TestScheduleFlagParity(t *testing.T) {
	for n := 0; n <= 11; n++ {
		for _, start := range []bool{true, false} {
			steps, final := Schedule(n, start)
			if len(steps) != n {
				t.Fatalf("n=%d: got %d steps", n, len(steps))
			}
			wantFinal := start
			if n%2 == 1 {
				wantFinal = !start
			}
			if final != wantFinal {
				t.Errorf("n=%d start=%v: final flag %v, want %v", n, start, final, wantFinal)
			}
			if n > 0 && steps[n-1].Write != ResultIndex(final) {
				t.Errorf("n=%d start=%v: result index %d, last write %d", n, start, ResultIndex(final), steps[n-1].Write)
			}
		}
	}
}

func TestScheduleTenIterations(t *testing.T) {
	steps, final := Schedule(DefaultIterations, true)
	if !final {
		t.Fatalf("after 10 passes the flag should be back to its start value")
	}
	if steps[0].Read != FromBright {
		t.Errorf("first pass should read the bright attachment, got %d", steps[0].Read)
	}
	for i, s := range steps {
		if s.Horizontal != (i%2 == 0) {
			t.Errorf("step %d direction = %v", i, s.Horizontal)
		}
		if s.Read == s.Write {
			t.Errorf("step %d reads the target it writes", i)
		}
		if i > 0 && s.Read != steps[i-1].Write {
			t.Errorf("step %d reads %d, previous pass wrote %d", i, s.Read, steps[i-1].Write)
		}
	}
}

func TestProcessorBlur(t *testing.T) {
	rec := gputest.NewRecorder()
	pair, err := framebuffer.NewPingPongPair(rec, 800, 600)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	prog, err := graphics.NewProgram(rec, "blur", "", "", BlurUniforms)
	if err != nil {
		t.Fatalf("program: %v", err)
	}
	p := NewProcessor(rec, pair, prog, graphics.NewPrimitives(rec))

	const bright = 999
	rec.Reset()
	result := p.Blur(bright)

	if len(rec.Draws) != DefaultIterations {
		t.Fatalf("draws = %d, want %d", len(rec.Draws), DefaultIterations)
	}
	if rec.Draws[0].Textures[0] != bright {
		t.Errorf("first pass sampled %d, want the bright attachment", rec.Draws[0].Textures[0])
	}
	last := rec.Draws[len(rec.Draws)-1]
	if result != pair.Color(0) || last.Framebuffer != pair.Targets[0].FBO {
		t.Errorf("result %d (last fb %d), want pingpong[0] color %d", result, last.Framebuffer, pair.Color(0))
	}
	for i := 1; i < len(rec.Draws); i++ {
		if rec.Draws[i].Textures[0] == bright {
			t.Errorf("pass %d still reads the bright attachment", i)
		}
	}
	if rec.Count("NewFramebuffer") != 0 || rec.Count("NewTexture") != 0 {
		t.Errorf("blur must not allocate targets per frame")
	}
	if v, _ := rec.Uniform(prog.ID, "horizontal"); v != int32(0) {
		t.Errorf("last pass should be vertical, horizontal=%v", v)
	}
}

func TestCompositePassthrough(t *testing.T) {
	scene := mgl32.Vec3{0.25, 1.5, 3}
	blurred := mgl32.Vec3{10, 10, 10}
	got := Composite(scene, blurred, Settings{Exposure: 1})
	if got != scene {
		t.Errorf("with bloom and HDR off the scene color should pass through, got %v", got)
	}
}

func TestCompositeStages(t *testing.T) {
	scene := mgl32.Vec3{1, 0, 0.5}
	blurred := mgl32.Vec3{1, 1, 0}

	bloomOnly := Composite(scene, blurred, Settings{Bloom: true, Exposure: 1})
	if bloomOnly != (mgl32.Vec3{2, 1, 0.5}) {
		t.Errorf("bloom = %v", bloomOnly)
	}

	mapped := Composite(scene, blurred, Settings{HDR: true, Exposure: 2})
	if want := float32(1 - math.Exp(-2)); math.Abs(float64(mapped[0]-want)) > 1e-6 {
		t.Errorf("tone-mapped red = %v, want %v", mapped[0], want)
	}
	if mapped[1] != 0 {
		t.Errorf("black should stay black, got %v", mapped[1])
	}

	corrected := Composite(scene, blurred, Settings{Gamma: true})
	if want := float32(math.Pow(0.5, 1/2.2)); math.Abs(float64(corrected[2]-want)) > 1e-6 {
		t.Errorf("gamma blue = %v, want %v", corrected[2], want)
	}
}

func TestSettingsUpload(t *testing.T) {
	rec := gputest.NewRecorder()
	prog, err := graphics.NewProgram(rec, "composite", "", "", CompositeUniforms)
	if err != nil {
		t.Fatalf("program: %v", err)
	}
	prog.Use()
	Settings{Bloom: true, Exposure: 0.5}.Upload(prog)
	for name, want := range map[string]any{
		"scene":     int32(0),
		"bloomBlur": int32(1),
		"bloom":     int32(1),
		"hdr":       int32(0),
		"gamma":     int32(0),
		"exposure":  float32(0.5),
	} {
		if got, _ := rec.Uniform(prog.ID, name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}
