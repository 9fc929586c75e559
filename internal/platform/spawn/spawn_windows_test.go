package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathVarCaseInsensitive(t *testing.T) {
	assert.True(t, isPathVar("Path=C:\\Windows"))
	assert.True(t, isPathVar("path="))

	env := []string{"Path=C:\\Windows", "HOME=C:\\Users\\u"}
	assert.Equal(t, []string{"HOME=C:\\Users\\u", "PATH=C:\\node"}, withPath(env, "C:\\node"))
}
