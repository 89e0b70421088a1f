package asmrgo

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct{}

func (stubReader) ReadClass(gate *modificationGate, bytecode []byte) (*ClassNode, error) {
	return NewClassNode(gate, string(bytecode), "java/lang/Object"), nil
}

func writeJarAt(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func writeTestJar(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.jar")
	writeJarAt(t, path, entries)
	return path
}

func TestAddJarRegistersClassEntries(t *testing.T) {
	path := writeTestJar(t, map[string][]byte{
		"com/example/Widget.class": []byte("com/example/Widget"),
		"com/example/Gadget.class": []byte("com/example/Gadget"),
		"META-INF/MANIFEST.MF":     []byte("Manifest-Version: 1.0\n"),
	})

	p := NewProcessor(nil)
	checksum, err := AddJar(p, path, "", stubReader{})
	require.NoError(t, err)
	assert.NotEmpty(t, checksum)

	p.mu.Lock()
	_, hasWidget := p.classes["com/example/Widget"]
	_, hasGadget := p.classes["com/example/Gadget"]
	_, hasManifest := p.classes["META-INF/MANIFEST"]
	p.mu.Unlock()
	assert.True(t, hasWidget)
	assert.True(t, hasGadget)
	assert.False(t, hasManifest)
}

func TestAddJarReturnsSameChecksumForUnchangedJar(t *testing.T) {
	path := writeTestJar(t, map[string][]byte{"com/example/Widget.class": []byte("v1")})

	p := NewProcessor(nil)
	first, err := AddJar(p, path, "", stubReader{})
	require.NoError(t, err)

	second, err := AddJar(p, path, first, stubReader{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAddJarChecksumChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.jar")
	writeJarAt(t, path, map[string][]byte{"com/example/Widget.class": []byte("v1")})

	p := NewProcessor(nil)
	first, err := AddJar(p, path, "", stubReader{})
	require.NoError(t, err)

	writeJarAt(t, path, map[string][]byte{"com/example/Widget.class": []byte("v2")})

	second, err := AddJar(p, path, first, stubReader{})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAddJarInvalidatesCacheOnChangeOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.jar")
	writeJarAt(t, path, map[string][]byte{"com/example/Widget.class": []byte("v1")})

	p := NewProcessor(nil)
	checksum, err := AddJar(p, path, "", stubReader{})
	require.NoError(t, err)
	require.NoError(t, p.Process(context.Background()))
	assert.True(t, p.IsUpToDate())

	_, err = AddJar(p, path, checksum, stubReader{})
	require.NoError(t, err)
	assert.True(t, p.IsUpToDate())

	writeJarAt(t, path, map[string][]byte{"com/example/Widget.class": []byte("v2")})
	_, err = AddJar(p, path, checksum, stubReader{})
	require.NoError(t, err)
	assert.False(t, p.IsUpToDate())
}
