package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeRefusal(t *testing.T) {
	assert.True(t, LooksLikeRefusal("I cannot provide a classification for this."))
	assert.True(t, LooksLikeRefusal("As a large language model, I..."))
	assert.False(t, LooksLikeRefusal(`{"category":"Invoice","confidence":0.9}`))
}
