package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestJar(t *testing.T, entries map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "deps.jar")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestWalkYieldsOnlyClassEntries(t *testing.T) {
	path := writeTestJar(t, map[string]string{
		"com/example/A.class": "classbytesA",
		"com/example/B.class": "classbytesB",
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\n",
	})

	var seen []string
	err := Walk(path, func(e ClassEntry) error {
		seen = append(seen, e.Name)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"com/example/A.class", "com/example/B.class"}, seen)
}

func TestWalkMissingArchive(t *testing.T) {
	err := Walk("/nonexistent/path/does-not-exist.jar", func(ClassEntry) error { return nil })
	assert.Error(t, err)
}
