package mocks

import (
	"context"

	"github.com/Lllllllleong/idpflow/internal/analysis"
	"github.com/stretchr/testify/mock"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, content []byte) ([]analysis.Block, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analysis.Block), args.Error(1)
}

var _ analysis.Analyzer = (*MockAnalyzer)(nil)
