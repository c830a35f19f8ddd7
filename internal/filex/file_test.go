package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestDirSaver_Save_WritesContent(t *testing.T) {
	s := DirSaver{Dir: t.TempDir()}

	path, err := s.Save("invoice.csv", []byte("a,b\n1,2"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("a,b\n1,2"), got)
}

func TestDirSaver_Save_StripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	s := DirSaver{Dir: dir}

	path, err := s.Save("../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "passwd"), path)
}
