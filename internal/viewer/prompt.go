package viewer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/logger"
)

// LightEdit is one answered light-edit sequence.
type LightEdit struct {
	Kind      lighting.Kind
	Index     int // slot, 0..lighting.Slots-1
	Intensity float32
	Color     mgl32.Vec3
	Vector    mgl32.Vec3 // position for point lights, direction otherwise
}

// Prompter asks the user for a light edit. ok is false when the user gave an
// invalid answer or aborted; no edit is applied then.
type Prompter interface {
	EditLight() (edit LightEdit, ok bool)
}

// ConsolePrompter asks its questions on a text stream, one answer per line.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter reads answers from r and writes questions to w.
func NewConsolePrompter(r io.Reader, w io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(r), out: w}
}

var errNoAnswer = errors.New("no answer")

// EditLight implements Prompter.
func (p *ConsolePrompter) EditLight() (LightEdit, bool) {
	edit, err := p.editLight()
	if err != nil {
		logger.Debug("light edit aborted", zap.Error(err))
		return LightEdit{}, false
	}
	return edit, true
}

func (p *ConsolePrompter) editLight() (LightEdit, error) {
	var edit LightEdit

	answer, err := p.ask("Light type (p = point, d = direction): ")
	if err != nil {
		return edit, err
	}
	if edit.Kind, err = lighting.ParseKind(answer); err != nil {
		return edit, err
	}

	if answer, err = p.ask(fmt.Sprintf("Light index (0-%d): ", lighting.Slots-1)); err != nil {
		return edit, err
	}
	if edit.Index, err = strconv.Atoi(answer); err != nil {
		return edit, fmt.Errorf("light index: %w", err)
	}
	if edit.Index < 0 || edit.Index >= lighting.Slots {
		return edit, fmt.Errorf("light index %d out of range", edit.Index)
	}

	if answer, err = p.ask("Intensity: "); err != nil {
		return edit, err
	}
	intensity, err := strconv.ParseFloat(answer, 32)
	if err != nil {
		return edit, fmt.Errorf("intensity: %w", err)
	}
	edit.Intensity = float32(intensity)

	if answer, err = p.ask("Color (R,G,B): "); err != nil {
		return edit, err
	}
	if edit.Color, err = ParseVec3(answer); err != nil {
		return edit, fmt.Errorf("color: %w", err)
	}

	question := "Position (x,y,z): "
	if edit.Kind == lighting.Directional {
		question = "Direction (x,y,z): "
	}
	if answer, err = p.ask(question); err != nil {
		return edit, err
	}
	if edit.Vector, err = ParseVec3(answer); err != nil {
		return edit, fmt.Errorf("vector: %w", err)
	}

	return edit, nil
}

func (p *ConsolePrompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil {
			return "", err
		}
		return "", errNoAnswer
	}
	return line, nil
}

// ParseVec3 parses "x,y,z". Whitespace around the components is ignored.
func ParseVec3(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("want 3 comma-separated components, got %d", len(parts))
	}
	var v mgl32.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
