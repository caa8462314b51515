package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, and any missing parents, holding size bytes of
// filler. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SolidFrame returns a width*height RGBA buffer filled with one opaque color.
func SolidFrame(width, height int, r, g, b byte) []byte {
	return bytes.Repeat([]byte{r, g, b, 0xff}, width*height)
}

// WriteRawFrames writes count solid-gray raw RGBA frames named the way the
// render stage names its output, and returns their paths.
func WriteRawFrames(t testing.TB, dir string, count, width, height int) []string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	paths := make([]string, count)
	for i := range paths {
		shade := byte(i * 255 / max(count-1, 1))
		paths[i] = filepath.Join(dir, fmt.Sprintf("frame-%012d.raw", i))
		if err := os.WriteFile(paths[i], SolidFrame(width, height, shade, shade, shade), 0o644); err != nil {
			t.Fatalf("write frame %s: %v", paths[i], err)
		}
	}
	return paths
}
