package mocks

import (
	"context"
	"time"

	"github.com/Lllllllleong/idpflow/internal/blob"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) SignedUploadURL(ctx context.Context, ref blob.Ref, ttl time.Duration) (string, error) {
	args := m.Called(ctx, ref, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStore) ReadAll(ctx context.Context, ref blob.Ref, maxBytes int64) ([]byte, error) {
	args := m.Called(ctx, ref, maxBytes)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

var _ blob.Store = (*MockStore)(nil)
