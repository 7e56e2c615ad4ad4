package etl

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/worldcup-etl/internal/ingest"
	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/store"
)

// --- Extractor Stub ---

type stubExtractor struct {
	raw *ingest.Raw
}

func (s stubExtractor) ExtractAll(context.Context) *ingest.Raw {
	return s.raw
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ReplaceMatches(ctx context.Context, records []model.MatchRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) ListMatches(ctx context.Context, filter store.MatchFilter) ([]model.MatchRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MatchRecord), args.Error(1)
}

func (m *mockStore) GetMatch(ctx context.Context, id int) (*model.MatchRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchRecord), args.Error(1)
}

func (m *mockStore) EditionCounts(ctx context.Context) ([]model.EditionCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EditionCount), args.Error(1)
}

func (m *mockStore) LoadDimensions(ctx context.Context, doc *model.Tournament2018) (store.DimensionCounts, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(store.DimensionCounts), args.Error(1)
}

func (m *mockStore) StartRun(ctx context.Context, metadata map[string]any) (*model.Run, error) {
	args := m.Called(ctx, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	args := m.Called(ctx, runID, result)
	return args.Error(0)
}

func (m *mockStore) FailRun(ctx context.Context, runID string, runErr error) error {
	args := m.Called(ctx, runID, runErr)
	return args.Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
