package formats

import (
	"bytes"
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/windflag/pkg/cloth"
	"github.com/Faultbox/windflag/pkg/math"
)

func TestOBJWriteTo(t *testing.T) {
	obj := &OBJ{
		Name:     "quad",
		Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1.5}},
		Faces:    [][3]int{{0, 1, 2}, {1, 2, 3}},
	}

	var buf bytes.Buffer
	n, err := obj.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, buffer has %d", n, buf.Len())
	}

	want := "o quad\nv 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1.5 0\nf 1 2 3\nf 2 3 4\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestOBJValidate(t *testing.T) {
	tests := []struct {
		name string
		obj  OBJ
		want error
	}{
		{"face out of range", OBJ{Vertices: []math.Vec3{{}, {}}, Faces: [][3]int{{0, 1, 2}}}, ErrOBJIndexOutOfRange},
		{"negative index", OBJ{Vertices: []math.Vec3{{}, {}, {}}, Faces: [][3]int{{-1, 1, 2}}}, ErrOBJIndexOutOfRange},
		{"nan vertex", OBJ{Vertices: []math.Vec3{{X: gomath.NaN()}}}, ErrOBJNonFinite},
		{"valid", OBJ{Vertices: []math.Vec3{{}, {}, {}}, Faces: [][3]int{{0, 1, 2}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obj.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSaveOBJFromMesh(t *testing.T) {
	m, err := cloth.Build(4, 3, math.Vec3{}, cloth.DefaultParams())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "flag.obj")
	obj := &OBJ{Name: "flag", Vertices: m.Positions(), Faces: m.TriangleIndices()}
	if err := SaveOBJ(path, obj); err != nil {
		t.Fatalf("SaveOBJ failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading OBJ: %v", err)
	}
	var vertices, faces int
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			vertices++
		case strings.HasPrefix(line, "f "):
			faces++
		}
	}
	if vertices != 12 || faces != 12 {
		t.Errorf("OBJ has %d vertices and %d faces, want 12 and 12", vertices, faces)
	}
}
