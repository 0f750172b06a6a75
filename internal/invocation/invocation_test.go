package invocation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	ctx := WithID(context.Background(), "exec-42")
	assert.Equal(t, "exec-42", ID(ctx))

	generated := ID(context.Background())
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
}

func TestEnsure(t *testing.T) {
	ctx := Ensure(context.Background())
	assert.Equal(t, ID(ctx), ID(ctx))

	kept := Ensure(WithID(context.Background(), "fixed"))
	assert.Equal(t, "fixed", ID(kept))
}
