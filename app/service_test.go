package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zyra/adapters/tabular"
	"zyra/domain/analytics"
	apperrors "zyra/internal/errors"
	"zyra/internal/pipeline"
	"zyra/internal/report"
	"zyra/internal/stattest"
	"zyra/ports"
)

var (
	_ ports.ObjectStore      = (*mockStore)(nil)
	_ ports.ConfigRepository = (*mockConfigRepo)(nil)
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	args := m.Called(ctx, bucket, path)
	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Upload(ctx context.Context, bucket, path string, data []byte) (string, error) {
	args := m.Called(ctx, bucket, path, data)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, bucket, path string) error {
	return m.Called(ctx, bucket, path).Error(0)
}

func (m *mockStore) Exists(ctx context.Context, bucket, path string) (bool, error) {
	args := m.Called(ctx, bucket, path)
	return args.Bool(0), args.Error(1)
}

type mockConfigRepo struct {
	mock.Mock
}

func (m *mockConfigRepo) Create(ctx context.Context, cfg *analytics.Configuration) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *mockConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*analytics.Configuration, error) {
	args := m.Called(ctx, id)
	if cfg := args.Get(0); cfg != nil {
		return cfg.(*analytics.Configuration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConfigRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*analytics.Configuration, error) {
	args := m.Called(ctx, userID)
	if cfg := args.Get(0); cfg != nil {
		return cfg.(*analytics.Configuration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConfigRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*analytics.Configuration, error) {
	args := m.Called(ctx, userID)
	if cfgs := args.Get(0); cfgs != nil {
		return cfgs.([]*analytics.Configuration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConfigRepo) Update(ctx context.Context, cfg *analytics.Configuration) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *mockConfigRepo) SetDefault(ctx context.Context, userID, configID uuid.UUID) error {
	return m.Called(ctx, userID, configID).Error(0)
}

func (m *mockConfigRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

const cleanCSV = `city,revenue,visits
north,1200.5,34
south,980.0,28
east,1410.0,41
west,1543.2,52
north,1200.5,34
`

var testRef = DatasetRef{Bucket: "datasets", Path: "sales.csv", FileType: "csv"}

func storeWith(data string) *mockStore {
	store := &mockStore{}
	store.On("Download", mock.Anything, "datasets", "sales.csv").Return([]byte(data), nil)
	return store
}

func TestEDAProducesProfileAndCorrelation(t *testing.T) {
	svc := NewAnalysisService(storeWith(cleanCSV), tabular.NewLoader(0))

	result, err := svc.EDA(context.Background(), EDARequest{Dataset: testRef})
	require.NoError(t, err)

	assert.Equal(t, [2]int{5, 3}, result.Shape)
	assert.Len(t, result.Profile.Columns, 3)
	assert.NotNil(t, result.Correlation, "two numeric columns should trigger correlation")
	assert.Greater(t, result.QualityScore, 0.0)
}

func TestEDAInvalidReference(t *testing.T) {
	svc := NewAnalysisService(&mockStore{}, tabular.NewLoader(0))

	_, err := svc.EDA(context.Background(), EDARequest{Dataset: DatasetRef{Bucket: "datasets"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestStatisticsCoversNumericColumns(t *testing.T) {
	svc := NewAnalysisService(storeWith(cleanCSV), tabular.NewLoader(0))

	result, err := svc.Statistics(context.Background(), testRef)
	require.NoError(t, err)

	require.Len(t, result.Columns, 2)
	for _, cs := range result.Columns {
		assert.NotNil(t, cs.Summary)
		assert.NotNil(t, cs.Normality)
	}
}

func TestRunTestPropagatesInputErrors(t *testing.T) {
	svc := NewAnalysisService(storeWith(cleanCSV), tabular.NewLoader(0))

	_, err := svc.RunTest(context.Background(), TestRequest{
		Dataset: testRef,
		Test:    stattest.Request{TestType: "bogus", Columns: []string{"revenue"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnsupportedTest, apperrors.GetCode(err))
}

func TestTransformPersistsOutput(t *testing.T) {
	store := storeWith(cleanCSV)
	store.On("Upload", mock.Anything, "datasets", "cleaned.csv", mock.Anything).Return("cleaned.csv", nil)
	svc := NewProcessingService(store, tabular.NewLoader(0))

	result, err := svc.Transform(context.Background(), TransformRequest{
		Dataset:         testRef,
		Transformations: []pipeline.Step{{Type: pipeline.StepScale, Method: "standard"}},
		Output:          &DatasetRef{Bucket: "datasets", Path: "cleaned.csv", FileType: "csv"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cleaned.csv", result.OutputPath)
	assert.Len(t, result.Log, 1)
	store.AssertCalled(t, "Upload", mock.Anything, "datasets", "cleaned.csv", mock.Anything)
}

func TestTransformRequiresSteps(t *testing.T) {
	svc := NewProcessingService(&mockStore{}, tabular.NewLoader(0))

	_, err := svc.Transform(context.Background(), TransformRequest{Dataset: testRef})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestCleanDropsDuplicates(t *testing.T) {
	svc := NewProcessingService(storeWith(cleanCSV), tabular.NewLoader(0))

	result, err := svc.Clean(context.Background(), CleanRequest{
		Dataset:        testRef,
		DropDuplicates: true,
	})
	require.NoError(t, err)

	assert.Equal(t, [2]int{5, 3}, result.OriginalShape)
	assert.Equal(t, [2]int{4, 3}, result.FinalShape)
	require.Len(t, result.Changes, 1)
	assert.Contains(t, result.Changes[0], "1 duplicate")
}

func TestDriftComparesTwoSnapshots(t *testing.T) {
	store := &mockStore{}
	store.On("Download", mock.Anything, "datasets", "v1.csv").Return([]byte("id,x\n1,10\n2,20\n3,30\n"), nil)
	store.On("Download", mock.Anything, "datasets", "v2.csv").Return([]byte("id,x,y\n1,10,5\n2,20,6\n3,30,7\n"), nil)
	svc := NewProcessingService(store, tabular.NewLoader(0))

	reportOut, err := svc.Drift(context.Background(), DriftRequest{
		Baseline: DatasetRef{Bucket: "datasets", Path: "v1.csv", FileType: "csv"},
		Current:  DatasetRef{Bucket: "datasets", Path: "v2.csv", FileType: "csv"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"y"}, reportOut.AddedColumns)
	assert.Empty(t, reportOut.RemovedColumns)
	assert.Empty(t, reportOut.TypeChanges)
}

func TestSuggestionsFromProfile(t *testing.T) {
	svc := NewAnalysisService(storeWith(cleanCSV), tabular.NewLoader(0))

	suggestions, err := svc.Suggestions(context.Background(), testRef)
	require.NoError(t, err)

	var steps []string
	for _, s := range suggestions {
		steps = append(steps, s.Step)
	}
	assert.Contains(t, steps, pipeline.StepEncode, "categorical city column should suggest encoding")
}

func TestReportGenerateWithPreset(t *testing.T) {
	svc := NewReportService(storeWith(cleanCSV), tabular.NewLoader(0), nil, nil)

	result, err := svc.Generate(context.Background(), ReportRequest{
		Dataset: testRef,
		Preset:  analytics.PresetMinimal,
	})
	require.NoError(t, err)

	assert.Equal(t, report.StatusSuccess, result.Status)
	assert.NotNil(t, result.Document.DatasetInfo)
	assert.Nil(t, result.Document.StatisticalSummary)
}

func TestReportGenerateUnknownPreset(t *testing.T) {
	svc := NewReportService(storeWith(cleanCSV), tabular.NewLoader(0), nil, nil)

	_, err := svc.Generate(context.Background(), ReportRequest{Dataset: testRef, Preset: "turbo"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestReportFallsBackToDefaultConfiguration(t *testing.T) {
	userID := uuid.New()
	repo := &mockConfigRepo{}
	repo.On("GetDefault", mock.Anything, userID).Return(nil, apperrors.NotFound("default configuration"))
	svc := NewReportService(storeWith(cleanCSV), tabular.NewLoader(0), repo, nil)

	result, err := svc.Generate(context.Background(), ReportRequest{Dataset: testRef, UserID: &userID})
	require.NoError(t, err)

	assert.Equal(t, report.StatusSuccess, result.Status)
	assert.NotNil(t, result.Document.CorrelationData, "built-in default enables correlation")
}

func TestConfigServiceCreateFromPreset(t *testing.T) {
	userID := uuid.New()
	repo := &mockConfigRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(cfg *analytics.Configuration) bool {
		return cfg.UserID == userID && cfg.Name == analytics.PresetQuick
	})).Return(nil)
	svc := NewConfigService(repo)

	cfg, err := svc.CreateFromPreset(context.Background(), userID, analytics.PresetQuick)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxCorrelationPairs)
	assert.Equal(t, 3, cfg.MaxModelRecommendations)
	repo.AssertExpectations(t)
}

func TestConfigServiceRejectsMissingUser(t *testing.T) {
	svc := NewConfigService(&mockConfigRepo{})

	_, err := svc.CreateFromPreset(context.Background(), uuid.Nil, analytics.PresetQuick)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}
