package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Animation returns the transform prepended to a placement's recipe at elapsed time t (seconds)
type Animation func(t float64) Transform

// Animations is the set of animations a placement or light may name
var Animations = map[string]Animation{
	"snitch-orbit":   snitchOrbit,
	"phoenix-circle": phoenixCircle,
	"light-orbit":    lightOrbit,
}

// snitchOrbit weaves around the quidditch pitch on a figure-eight
func snitchOrbit(t float64) Transform {
	y := float32(math.Cos(t))
	z := float32(math.Sin(t))
	return Transform{Translate(5*y*z, -8+y, -9.5+5*z*y)}
}

func phoenixCircle(t float64) Transform {
	y := float32(math.Cos(t))
	z := float32(math.Sin(t))
	return Transform{Translate(y, 5, 5-z)}
}

// lightOrbit spins around the vertical axis once every 2π seconds
func lightOrbit(t float64) Transform {
	return Transform{Rotate(float32(t*180/math.Pi), mgl32.Vec3{0, 1, 0})}
}
