package scene

import "github.com/go-gl/mathgl/mgl32"

// PointLight is a positional light with distance attenuation
type PointLight struct {
	Position mgl32.Vec3 `json:"position"`
	Ambient  mgl32.Vec3 `json:"ambient"`
	Diffuse  mgl32.Vec3 `json:"diffuse"`
	Specular mgl32.Vec3 `json:"specular"`
	// Color is the HDR color of the marker cube; above 1 it feeds the bloom
	Color mgl32.Vec3 `json:"color"`

	Constant  float32 `json:"constant"`
	Linear    float32 `json:"linear"`
	Quadratic float32 `json:"quadratic"`
}

// DirLight is a light infinitely far away
type DirLight struct {
	Direction mgl32.Vec3 `json:"direction"`
	Ambient   mgl32.Vec3 `json:"ambient"`
	Diffuse   mgl32.Vec3 `json:"diffuse"`
	Specular  mgl32.Vec3 `json:"specular"`
}

// Lights is everything the lighting pass reads.
// Animation, when set, names an entry of Animations that moves the point light.
type Lights struct {
	Point     PointLight `json:"point"`
	Dir       DirLight   `json:"dir"`
	Shininess float32    `json:"shininess"`
	Animation string     `json:"animation,omitempty"`
}

// At returns the lights as they are at elapsed time t.
// Unknown animation names leave the light where it is.
func (l Lights) At(t float64) Lights {
	if anim, ok := Animations[l.Animation]; ok {
		l.Point.Position = anim(t).Matrix().Mul4x1(l.Point.Position.Vec4(1)).Vec3()
	}
	return l
}

// DefaultLights is a white point light above the scene and a dim sun
func DefaultLights() Lights {
	return Lights{
		Point: PointLight{
			Position:  mgl32.Vec3{4, 4, 4},
			Ambient:   mgl32.Vec3{0.1, 0.1, 0.1},
			Diffuse:   mgl32.Vec3{0.6, 0.6, 0.6},
			Specular:  mgl32.Vec3{1, 1, 1},
			Color:     mgl32.Vec3{5, 5, 5},
			Constant:  1,
			Linear:    0,
			Quadratic: 0,
		},
		Dir: DirLight{
			Direction: mgl32.Vec3{-0.2, -1, -0.3},
			Ambient:   mgl32.Vec3{0.05, 0.05, 0.05},
			Diffuse:   mgl32.Vec3{0.4, 0.4, 0.4},
			Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		},
		Shininess: 32,
	}
}
