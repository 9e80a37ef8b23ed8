package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "displayctl version dev\n  commit: unknown\n  built:  unknown\n", String())
}
