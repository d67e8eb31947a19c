package iphash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashDeterministic(t *testing.T) {
	first := Hash("192.168.1.100")
	second := Hash("192.168.1.100")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestHashDistinctInputs(t *testing.T) {
	assert.NotEqual(t, Hash("10.0.0.1"), Hash("10.0.0.2"))
}

func TestHashNeverEchoesRawIP(t *testing.T) {
	digest := Hash("203.0.113.7")
	assert.NotContains(t, digest, "203.0.113.7")
	assert.Regexp(t, "^[0-9a-f]{64}$", digest)
}

func TestHashEmpty(t *testing.T) {
	assert.Empty(t, Hash(""))
}
