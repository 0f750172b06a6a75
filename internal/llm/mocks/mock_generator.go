package mocks

import (
	"context"

	"github.com/Lllllllleong/idpflow/internal/llm"
	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var _ llm.Generator = (*MockGenerator)(nil)
