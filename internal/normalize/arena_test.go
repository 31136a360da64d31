package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDArena_Claim(t *testing.T) {
	a := NewIDArena("stage:design")

	assert.Equal(t, "g1", a.Claim("g1", "group"))
	assert.Equal(t, "g1-2", a.Claim("g1", "group"))
	assert.Equal(t, "g1-3", a.Claim(" g1 ", "group"))
	assert.Equal(t, "stage:design-2", a.Claim("stage:design", "group"))
	assert.Equal(t, "group", a.Claim("", "group"))
	assert.Equal(t, "group-2", a.Claim("  ", "group"))
	assert.True(t, a.Contains("g1-2"))
	assert.False(t, a.Contains("g1-4"))
}

func TestIDArena_SuffixSkipsExplicitlyTakenIDs(t *testing.T) {
	a := NewIDArena()
	assert.Equal(t, "r-2", a.Claim("r-2", "row"))
	assert.Equal(t, "r", a.Claim("r", "row"))
	assert.Equal(t, "r-3", a.Claim("r", "row"))
}
