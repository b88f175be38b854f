package formats

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var grey = [3]float32{0.5, 0.5, 0.5}

func TestParseOBJ_SingleTriangle(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vn 0 0 1
vn 0 0 1
f 1/0/1 2/0/2 3/0/3
`
	obj, err := ParseOBJ([]byte(src), grey)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	want := []float32{
		0, 0, 0, 0.5, 0.5, 0.5, 0, 0, 1,
		1, 0, 0, 0.5, 0.5, 0.5, 0, 0, 1,
		0, 1, 0, 0.5, 0.5, 0.5, 0, 0, 1,
	}
	if !reflect.DeepEqual(obj.Data, want) {
		t.Errorf("unexpected data:\n got %v\nwant %v", obj.Data, want)
	}
	if obj.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", obj.VertexCount())
	}
	if obj.Triangles != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.Triangles)
	}
	if len(obj.Problems) != 0 {
		t.Errorf("expected no problems, got %v", obj.Problems)
	}
}

func TestParseOBJ_InlineColors(t *testing.T) {
	src := `v 0 0 0 1 0 0
v 1 0 0 0 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	obj, err := ParseOBJ([]byte(src), grey)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.VertexCount() != 3 {
		t.Fatalf("expected 3 vertices, got %d", obj.VertexCount())
	}

	colors := [][3]float32{
		{obj.Data[3], obj.Data[4], obj.Data[5]},
		{obj.Data[12], obj.Data[13], obj.Data[14]},
		{obj.Data[21], obj.Data[22], obj.Data[23]},
	}
	want := [][3]float32{{1, 0, 0}, {0, 1, 0}, grey}
	if !reflect.DeepEqual(colors, want) {
		t.Errorf("expected colors %v, got %v", want, colors)
	}
}

func TestParseOBJ_CommentsAndUnknownTags(t *testing.T) {
	src := `# exported by hand
o triangle
mtllib none.mtl
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
s off
f 1/1/1 2/1/1 3/1/1
`
	obj, err := ParseOBJ([]byte(src), grey)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.Triangles != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.Triangles)
	}
	if len(obj.Problems) != 0 {
		t.Errorf("expected no problems, got %v", obj.Problems)
	}
}

func TestParseOBJ_CRLFAndExtraSpaces(t *testing.T) {
	src := "v  0 0 0\r\nv 1 0 0\r\nv 0  1 0\r\nvn 0 0 1\r\nf 1//1  2//1 3//1\r\n"
	obj, err := ParseOBJ([]byte(src), grey)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.Triangles != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.Triangles)
	}
	if len(obj.Problems) != 0 {
		t.Errorf("expected no problems, got %v", obj.Problems)
	}
}

func TestParseOBJ_QuadIsFanTriangulated(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`
	obj, err := ParseOBJ([]byte(src), grey)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.Triangles != 2 {
		t.Fatalf("expected 2 triangles, got %d", obj.Triangles)
	}

	// Second triangle is (1, 3, 4).
	second := obj.Data[3*FloatsPerVertex:]
	got := [][3]float32{
		{second[0], second[1], second[2]},
		{second[9], second[10], second[11]},
		{second[18], second[19], second[20]},
	}
	want := [][3]float32{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected fan triangle %v, got %v", want, got)
	}
	if len(obj.Problems) != 1 {
		t.Errorf("expected the polygon to be reported once, got %v", obj.Problems)
	}
}

func TestParseOBJ_MalformedRecords(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		triangles int
		problems  int
	}{
		{
			name:      "short vertex keeps its index",
			src:       "v 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n",
			triangles: 1,
			problems:  1,
		},
		{
			name:      "short normal",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 1\nf 1//1 2//1 3//1\n",
			triangles: 1,
			problems:  1,
		},
		{
			name:      "bad number",
			src:       "v 0 x 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n",
			triangles: 1,
			problems:  1,
		},
		{
			name:      "long normal",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1 1\nf 1//1 2//1 3//1\n",
			triangles: 1,
			problems:  1,
		},
		{
			name:      "face with two corners",
			src:       "v 0 0 0\nv 1 0 0\nvn 0 0 1\nf 1//1 2//1\n",
			triangles: 0,
			problems:  1,
		},
		{
			name:      "corner without normal",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1 2 3\n",
			triangles: 0,
			problems:  1,
		},
		{
			name:      "index out of range",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 9//1\nf 1//1 2//1 3//1\n",
			triangles: 1,
			problems:  1,
		},
		{
			name:      "normal index out of range",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//2\n",
			triangles: 0,
			problems:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ([]byte(tt.src), grey)
			if err != nil {
				t.Fatalf("malformed records must not fail the parse: %v", err)
			}
			if obj.Triangles != tt.triangles {
				t.Errorf("expected %d triangles, got %d", tt.triangles, obj.Triangles)
			}
			if len(obj.Problems) != tt.problems {
				t.Errorf("expected %d problems, got %d: %v", tt.problems, len(obj.Problems), obj.Problems)
			}
		})
	}
}

func TestParseOBJ_ForwardAndNegativeIndices(t *testing.T) {
	src := `vn 0 0 1
f 1//1 2//1 3//1
v 0 0 0
v 1 0 0
v 0 1 0
f -3//-1 -2//-1 -1//-1
`
	obj, err := ParseOBJ([]byte(src), grey)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.Triangles != 2 {
		t.Errorf("expected 2 triangles, got %d", obj.Triangles)
	}
	if !reflect.DeepEqual(obj.Data[:27], obj.Data[27:]) {
		t.Error("relative indices should resolve to the same triangle")
	}
}

func TestProblemString(t *testing.T) {
	p := Problem{Line: 4, Record: "vn 0 0", Reason: "normal needs exactly 3 components"}
	s := p.String()
	if !strings.Contains(s, "line 4") || !strings.Contains(s, "vn 0 0") {
		t.Errorf("unexpected problem string %q", s)
	}
}

func TestParseOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write obj: %v", err)
	}

	obj, err := ParseOBJFile(path, grey)
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if obj.Triangles != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.Triangles)
	}

	if _, err := ParseOBJFile(filepath.Join(t.TempDir(), "missing.obj"), grey); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseOBJ_LongLine(t *testing.T) {
	// An over-long record is just another malformed line.
	long := "vt " + strings.Repeat("0.5 ", 40000)
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" + long + "\nvn 0 0 1\nf 1//1 2//1 3//1\n"

	obj, err := ParseOBJ([]byte(src), grey)
	if err != nil {
		t.Fatalf("long line must not fail the parse: %v", err)
	}
	if obj.Triangles != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.Triangles)
	}
}
