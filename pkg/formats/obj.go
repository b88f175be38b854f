package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FloatsPerVertex is the interleaved layout produced by ParseOBJ:
// position (3), color (3), normal (3).
const FloatsPerVertex = 9

// Byte offsets of each attribute inside an interleaved vertex.
const (
	PositionOffset = 0
	ColorOffset    = 3 * 4
	NormalOffset   = 6 * 4
	VertexStride   = FloatsPerVertex * 4
)

// Problem is a malformed or unsupported OBJ record. Parsing continues past it.
type Problem struct {
	Line   int
	Record string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s (%q)", p.Line, p.Reason, p.Record)
}

// OBJ is a triangulated mesh in interleaved form.
type OBJ struct {
	// Data holds FloatsPerVertex floats per triangle vertex, three vertices per face.
	Data []float32

	// Problems lists every record that was malformed or needed fixing up.
	Problems []Problem

	Vertices  int // v records
	Normals   int // vn records
	Triangles int // emitted triangles
}

// VertexCount returns the number of interleaved vertices in Data.
func (o *OBJ) VertexCount() int {
	return len(o.Data) / FloatsPerVertex
}

type objCorner struct {
	vertex, normal int
}

type objFace struct {
	line    int
	record  string
	corners []objCorner
}

type objParser struct {
	fallback  [3]float32
	positions [][3]float32
	colors    [][3]float32
	normals   [][3]float32
	faces     []objFace
	problems  []Problem
}

// ParseOBJ parses a Wavefront OBJ subset: v (with optional inline r g b),
// vn and f records whose corners carry a normal index in the third
// slash-separated field. Vertices without an inline color use fallback.
// Polygons are fan-triangulated. Unknown tags and # comments are ignored.
func ParseOBJ(data []byte, fallback [3]float32) (*OBJ, error) {
	p := &objParser{fallback: fallback}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	// A single line may be as long as the whole input.
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p.parseVertex(lineNo, line, fields)
		case "vn":
			p.parseNormal(lineNo, line, fields)
		case "f":
			p.parseFace(lineNo, line, fields)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return p.assemble(), nil
}

// ParseOBJFile reads and parses an OBJ file from disk.
func ParseOBJFile(path string, fallback [3]float32) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data, fallback)
}

func (p *objParser) report(line int, record, reason string) {
	p.problems = append(p.problems, Problem{Line: line, Record: record, Reason: reason})
}

// floats parses up to three values from fields. Missing values are zero and
// invalid ones are zero and reported, so the record still occupies its index.
// The caller reports a short record.
func (p *objParser) floats(line int, record string, fields []string) [3]float32 {
	var out [3]float32
	for i := 0; i < len(fields) && i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			p.report(line, record, fmt.Sprintf("invalid number %q", fields[i]))
			continue
		}
		out[i] = float32(f)
	}
	return out
}

func (p *objParser) parseVertex(line int, record string, fields []string) {
	if len(fields) < 4 {
		p.report(line, record, "vertex needs 3 coordinates")
	}
	p.positions = append(p.positions, p.floats(line, record, fields[1:]))

	// Inline colors need all three channels; anything short falls back.
	if len(fields) < 7 {
		p.colors = append(p.colors, p.fallback)
		return
	}
	p.colors = append(p.colors, p.floats(line, record, fields[4:7]))
}

func (p *objParser) parseNormal(line int, record string, fields []string) {
	if len(fields) != 4 {
		p.report(line, record, "normal needs exactly 3 components")
	}
	p.normals = append(p.normals, p.floats(line, record, fields[1:]))
}

func (p *objParser) parseFace(line int, record string, fields []string) {
	corners := fields[1:]
	if len(corners) < 3 {
		p.report(line, record, "face needs at least 3 corners")
		return
	}
	if len(corners) > 3 {
		p.report(line, record, fmt.Sprintf("%d-corner polygon triangulated as a fan", len(corners)))
	}

	face := objFace{line: line, record: record, corners: make([]objCorner, 0, len(corners))}
	for _, c := range corners {
		parts := strings.Split(c, "/")
		if len(parts) < 3 || parts[2] == "" {
			p.report(line, record, fmt.Sprintf("corner %q has no normal index", c))
			return
		}
		v, errV := strconv.Atoi(parts[0])
		n, errN := strconv.Atoi(parts[2])
		if errV != nil || errN != nil {
			p.report(line, record, fmt.Sprintf("corner %q has an invalid index", c))
			return
		}
		// Negative indices count back from the records read so far.
		if v < 0 {
			v += len(p.positions) + 1
		}
		if n < 0 {
			n += len(p.normals) + 1
		}
		face.corners = append(face.corners, objCorner{vertex: v, normal: n})
	}
	p.faces = append(p.faces, face)
}

// resolve converts a 1-based OBJ index to 0-based.
func resolve(idx, count int) (int, bool) {
	if idx < 1 || idx > count {
		return 0, false
	}
	return idx - 1, true
}

// assemble resolves face indices once every record has been read, since
// faces may refer to vertices defined further down the file.
func (p *objParser) assemble() *OBJ {
	obj := &OBJ{Vertices: len(p.positions), Normals: len(p.normals)}

	for _, face := range p.faces {
		resolved := make([]objCorner, len(face.corners))
		ok := true
		for i, c := range face.corners {
			v, okV := resolve(c.vertex, len(p.positions))
			n, okN := resolve(c.normal, len(p.normals))
			if !okV || !okN {
				p.report(face.line, face.record, "index out of range, face skipped")
				ok = false
				break
			}
			resolved[i] = objCorner{vertex: v, normal: n}
		}
		if !ok {
			continue
		}

		for i := 1; i+1 < len(resolved); i++ {
			for _, c := range [3]objCorner{resolved[0], resolved[i], resolved[i+1]} {
				pos, col, nrm := p.positions[c.vertex], p.colors[c.vertex], p.normals[c.normal]
				obj.Data = append(obj.Data,
					pos[0], pos[1], pos[2],
					col[0], col[1], col[2],
					nrm[0], nrm[1], nrm[2],
				)
			}
			obj.Triangles++
		}
	}

	obj.Problems = p.problems
	return obj
}
