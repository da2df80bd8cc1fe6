package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
	assert.NotEmpty(t, GetGitCommit())
	assert.NotEmpty(t, GetBuildDate())
}

func TestParsed(t *testing.T) {
	v := Parsed()
	assert.Equal(t, GetVersion(), v.String())
}

func TestString(t *testing.T) {
	assert.Contains(t, String(), "zerodesign "+GetVersion())
}
