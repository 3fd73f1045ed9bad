package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/windflag/pkg/math"
)

// OBJ export errors.
var (
	ErrOBJIndexOutOfRange = errors.New("OBJ face index out of range")
	ErrOBJNonFinite       = errors.New("OBJ vertex is not finite")
)

// OBJ is a triangle mesh in Wavefront OBJ terms. Faces use 0-based indices;
// they are written 1-based.
type OBJ struct {
	Name     string
	Vertices []math.Vec3
	Faces    [][3]int
}

// Validate checks that every face references an existing vertex and that
// every vertex is finite.
func (o *OBJ) Validate() error {
	for i, v := range o.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("%w: vertex %d = %v", ErrOBJNonFinite, i, v)
		}
	}
	for i, f := range o.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(o.Vertices) {
				return fmt.Errorf("%w: face %d index %d, %d vertices", ErrOBJIndexOutOfRange, i, idx, len(o.Vertices))
			}
		}
	}
	return nil
}

// WriteTo writes the mesh as OBJ text.
func (o *OBJ) WriteTo(w io.Writer) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	if o.Name != "" {
		fmt.Fprintf(cw, "o %s\n", o.Name)
	}
	for _, v := range o.Vertices {
		fmt.Fprintf(cw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, f := range o.Faces {
		fmt.Fprintf(cw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

// SaveOBJ writes the mesh to path, creating parent directories.
func SaveOBJ(path string, o *OBJ) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := o.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// countingWriter tracks bytes written and keeps the first error.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
