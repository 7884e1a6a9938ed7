package assets

import (
	"fmt"
	"io"
	"path"
)

// LoadShader reads a GLSL file into a null-terminated string for OpenGL.
func (l *Loader) LoadShader(name string) (string, error) {
	p := path.Join(l.ShaderDir, name)
	f, err := l.FS.Open(p)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	// Ensure null termination for gl.Str
	if len(b) == 0 || b[len(b)-1] != 0 {
		b = append(b, 0)
	}
	return string(b), nil
}
