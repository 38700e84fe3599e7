package pageshot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noise(seed int64, n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

func TestSimilarity(t *testing.T) {
	a := noise(1, 64<<10)

	score, err := Similarity(a, a)
	require.NoError(t, err)
	assert.Equal(t, 100, score)

	score, err = Similarity(a, noise(2, 64<<10))
	require.NoError(t, err)
	assert.Less(t, score, 50)
}

func TestIsSimilar(t *testing.T) {
	a := noise(1, 64<<10)

	assert.True(t, IsSimilar(a, a, 96))
	assert.False(t, IsSimilar(a, noise(3, 64<<10), 96))
	// too small to hash
	assert.False(t, IsSimilar([]byte("tiny"), []byte("tiny"), 1))
}
