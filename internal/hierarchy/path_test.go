package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	assert.Nil(t, Segments(""))
	assert.Equal(t, []string{"src"}, Segments("src"))
	assert.Equal(t, []string{"src", "util", "io"}, Segments(`src\util\io`))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth(""))
	assert.Equal(t, 1, Depth("src"))
	assert.Equal(t, 3, Depth(`src\util\io`))
}

func TestParent(t *testing.T) {
	assert.Equal(t, "", Parent("src"))
	assert.Equal(t, "src", Parent(`src\util`))
	assert.Equal(t, `src\util`, Parent(`src\util\io`))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "src", Base("src"))
	assert.Equal(t, "io", Base(`src\util\io`))
}

func TestFileBase(t *testing.T) {
	assert.Equal(t, "log.cpp", FileBase(`src\util\log.cpp`))
	assert.Equal(t, "log.cpp", FileBase("src/util/log.cpp"))
	assert.Equal(t, "main.cpp", FileBase("main.cpp"))
}
