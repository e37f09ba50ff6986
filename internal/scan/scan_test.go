package scan

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFS(t *testing.T) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for _, path := range []string{
		"code/main.cpp",
		"code/notes.txt",
		"code/upper.CPP",
		"code/src/a.cpp",
		"code/src/util/b.cpp",
	} {
		require.NoError(t, util.WriteFile(fs, path, []byte("x"), 0o644))
	}
	return fs
}

func TestFiles_NonRecursive(t *testing.T) {
	got, err := Files(sampleFS(t), "code", Options{Extension: "cpp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.cpp", "upper.CPP"}, got)
}

func TestFiles_Recursive(t *testing.T) {
	got, err := Files(sampleFS(t), "code", Options{Extension: "cpp", Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.cpp", "src/a.cpp", "src/util/b.cpp", "upper.CPP"}, got)
}

func TestFiles_PatternRefines(t *testing.T) {
	got, err := Files(sampleFS(t), "code", Options{Extension: "cpp", Recursive: true, Pattern: "util"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/util/b.cpp"}, got)

	got, err = Files(sampleFS(t), "code", Options{Extension: "cpp", Recursive: true, Pattern: "util", Negate: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.cpp", "src/a.cpp", "upper.CPP"}, got)
}

func TestFiles_SubdirectoryRoot(t *testing.T) {
	got, err := Files(sampleFS(t), "code/src", Options{Extension: "cpp", Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.cpp", "util/b.cpp"}, got)
}

func TestFiles_RequiresExtension(t *testing.T) {
	_, err := Files(sampleFS(t), "code", Options{})
	require.Error(t, err)
}

func TestFiles_BadPattern(t *testing.T) {
	_, err := Files(sampleFS(t), "code", Options{Extension: "cpp", Pattern: "(["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile pattern")
}

func TestFiles_MissingRoot(t *testing.T) {
	_, err := Files(memfs.New(), "nope", Options{Extension: "cpp"})
	require.Error(t, err)
}
