// Package lighting provides the fixed-size light lists uploaded to the lit shaders.
package lighting

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
)

// Slots is the number of lights per kind the shaders expect.
const Slots = 16

// DummyName names the zero-intensity lights that fill unused slots.
const DummyName = "dummy"

// Kind distinguishes point lights from directional lights.
type Kind int

const (
	Point Kind = iota
	Directional
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Directional:
		return "direction"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the scene-file names ("point", "direction") and the
// short forms used by the interactive editor ("p", "d").
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "point", "p":
		return Point, nil
	case "direction", "directional", "d":
		return Directional, nil
	}
	return Point, fmt.Errorf("unknown light type %q", name)
}

// Light is a single point or directional light.
type Light struct {
	Name      string
	Kind      Kind
	Intensity float32
	Color     mgl32.Vec3 // RGB color (0-1 range)

	// Position is used by point lights, Direction by directional lights.
	Position  mgl32.Vec3
	Direction mgl32.Vec3
}

// Vector returns Position for point lights and Direction otherwise.
func (l *Light) Vector() mgl32.Vec3 {
	if l.Kind == Point {
		return l.Position
	}
	return l.Direction
}

// Dummy returns a zero-intensity placeholder of the given kind.
func Dummy(kind Kind) Light {
	return Light{Name: DummyName, Kind: kind}
}

// List holds exactly Slots lights of each kind.
type List struct {
	Point       [Slots]Light
	Directional [Slots]Light
}

// NewList distributes lights into the per-kind slots in order and pads the
// remainder with dummies. Lights beyond the capacity are dropped.
func NewList(lights []Light) *List {
	l := &List{}
	for i := 0; i < Slots; i++ {
		l.Point[i] = Dummy(Point)
		l.Directional[i] = Dummy(Directional)
	}

	var points, dirs int
	for _, light := range lights {
		switch light.Kind {
		case Point:
			if points == Slots {
				logger.Warn("point light dropped, list full", zap.String("light", light.Name))
				continue
			}
			l.Point[points] = light
			points++
		case Directional:
			if dirs == Slots {
				logger.Warn("directional light dropped, list full", zap.String("light", light.Name))
				continue
			}
			l.Directional[dirs] = light
			dirs++
		}
	}

	logger.Debug("light list built", zap.Int("point", points), zap.Int("directional", dirs))
	return l
}

// ByKind returns the slot array for kind.
func (l *List) ByKind(kind Kind) *[Slots]Light {
	if kind == Directional {
		return &l.Directional
	}
	return &l.Point
}

// Active counts the lights of kind with non-zero intensity.
func (l *List) Active(kind Kind) int {
	n := 0
	for _, light := range l.ByKind(kind) {
		if light.Intensity != 0 {
			n++
		}
	}
	return n
}

// Edit replaces intensity, color and position (or direction) of the light in
// slot index. Indexes outside 0..Slots-1 are ignored and Edit reports false.
func (l *List) Edit(kind Kind, index int, intensity float32, color, vec mgl32.Vec3) bool {
	if index < 0 || index >= Slots {
		return false
	}
	light := &l.ByKind(kind)[index]
	light.Intensity = intensity
	light.Color = color
	if kind == Point {
		light.Position = vec
	} else {
		light.Direction = vec
	}
	return true
}

// Intensities returns the intensities of kind, one float per slot.
func (l *List) Intensities(kind Kind) []float32 {
	result := make([]float32, Slots)
	for i, light := range l.ByKind(kind) {
		result[i] = light.Intensity
	}
	return result
}

// Colors returns the colors of kind as packed RGB triples.
// Format: [r0, g0, b0, r1, g1, b1, ...]
func (l *List) Colors(kind Kind) []float32 {
	result := make([]float32, Slots*3)
	for i, light := range l.ByKind(kind) {
		copy(result[i*3:], light.Color[:])
	}
	return result
}

// Vectors returns positions (point) or directions (directional) as packed
// xyz triples.
func (l *List) Vectors(kind Kind) []float32 {
	result := make([]float32, Slots*3)
	for i := range l.ByKind(kind) {
		v := l.ByKind(kind)[i].Vector()
		copy(result[i*3:], v[:])
	}
	return result
}
