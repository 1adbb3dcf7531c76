package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zyra/adapters/storage"
	"zyra/adapters/tabular"
	"zyra/app"
	"zyra/domain/analytics"
	apperrors "zyra/internal/errors"
	"zyra/ports"
)

const demoCSV = `price,qty,region
10.5,3,north
12.0,5,south
9.75,2,north
14.2,7,east
11.1,4,west
13.8,6,south
10.9,3,east
12.6,5,north
`

// memConfigRepo is an in-memory ConfigRepository for handler tests.
type memConfigRepo struct {
	configs map[uuid.UUID]*analytics.Configuration
}

var _ ports.ConfigRepository = (*memConfigRepo)(nil)

func newMemConfigRepo() *memConfigRepo {
	return &memConfigRepo{configs: make(map[uuid.UUID]*analytics.Configuration)}
}

func (m *memConfigRepo) Create(ctx context.Context, cfg *analytics.Configuration) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	cp := *cfg
	m.configs[cfg.ID] = &cp
	return nil
}

func (m *memConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*analytics.Configuration, error) {
	cfg, ok := m.configs[id]
	if !ok {
		return nil, apperrors.NotFound("configuration")
	}
	return cfg, nil
}

func (m *memConfigRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*analytics.Configuration, error) {
	for _, cfg := range m.configs {
		if cfg.UserID == userID && cfg.IsDefault {
			return cfg, nil
		}
	}
	return nil, apperrors.NotFound("default configuration")
}

func (m *memConfigRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*analytics.Configuration, error) {
	var out []*analytics.Configuration
	for _, cfg := range m.configs {
		if cfg.UserID == userID {
			out = append(out, cfg)
		}
	}
	return out, nil
}

func (m *memConfigRepo) Update(ctx context.Context, cfg *analytics.Configuration) error {
	if _, ok := m.configs[cfg.ID]; !ok {
		return apperrors.NotFound("configuration")
	}
	cp := *cfg
	m.configs[cfg.ID] = &cp
	return nil
}

func (m *memConfigRepo) SetDefault(ctx context.Context, userID, configID uuid.UUID) error {
	cfg, ok := m.configs[configID]
	if !ok || cfg.UserID != userID {
		return apperrors.NotFound("configuration")
	}
	for _, other := range m.configs {
		if other.UserID == userID {
			other.IsDefault = false
		}
	}
	cfg.IsDefault = true
	return nil
}

func (m *memConfigRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.configs[id]; !ok {
		return apperrors.NotFound("configuration")
	}
	delete(m.configs, id)
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Upload(context.Background(), "datasets", "demo.csv", []byte(demoCSV))
	require.NoError(t, err)
	_, err = store.Upload(context.Background(), "datasets", "tiny.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	loader := tabular.NewLoader(0)
	repo := newMemConfigRepo()
	return NewServer(
		app.NewAnalysisService(store, loader),
		app.NewProcessingService(store, loader),
		app.NewReportService(store, loader, repo, nil),
		app.NewConfigService(repo),
	)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func demoRef() map[string]string {
	return map[string]string{"bucket": "datasets", "path": "demo.csv", "file_type": "csv"}
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEDAEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/analysis/eda", map[string]interface{}{
		"dataset": demoRef(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result, "profile")
	assert.Contains(t, result, "quality_score")
	assert.Contains(t, result, "correlation")
}

func TestEDARejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/analysis/eda", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, errorCode(t, rec))
}

func TestMissingDatasetReturns404(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/eda", map[string]interface{}{
		"dataset": map[string]string{"bucket": "datasets", "path": "ghost.csv", "file_type": "csv"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.CodeNotFound, errorCode(t, rec))
}

func TestUnsupportedFormatReturns400(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/eda", map[string]interface{}{
		"dataset": map[string]string{"bucket": "datasets", "path": "demo.csv", "file_type": "pdf"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeUnsupportedFormat, errorCode(t, rec))
}

func TestUnknownTestTypeReturns400(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/tests", map[string]interface{}{
		"dataset": demoRef(),
		"test":    map[string]interface{}{"test_type": "bogus", "columns": []string{"price"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeUnsupportedTest, errorCode(t, rec))
}

func TestInsufficientDataReturns422(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/tests", map[string]interface{}{
		"dataset": map[string]string{"bucket": "datasets", "path": "tiny.csv", "file_type": "csv"},
		"test":    map[string]interface{}{"test_type": "ttest", "columns": []string{"a", "b"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, apperrors.CodeInsufficientData, errorCode(t, rec))
}

func TestABTestEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/ab-test", map[string]interface{}{
		"control_conversions":   120,
		"control_visitors":      2400,
		"treatment_conversions": 165,
		"treatment_visitors":    2380,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result, "p_value")
}

func TestDriftEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/drift", map[string]interface{}{
		"baseline": demoRef(),
		"current":  demoRef(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "none", result["severity"])
}

func TestTransformEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/transform", map[string]interface{}{
		"dataset": demoRef(),
		"transformations": []map[string]interface{}{
			{"type": "scale_features", "method": "standard"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestReportEndpointWithPreset(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/analysis/report", map[string]interface{}{
		"dataset": demoRef(),
		"preset":  "minimal",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "success", result["status"])
}

func TestPresetsEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/v1/configurations/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Presets []string `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.ElementsMatch(t, []string{"quick", "comprehensive", "minimal"}, result.Presets)
}

func TestConfigurationLifecycle(t *testing.T) {
	srv := newTestServer(t)
	userID := uuid.New()

	rec := doJSON(t, srv, http.MethodPost, "/v1/configurations/presets", map[string]interface{}{
		"user_id": userID,
		"preset":  "quick",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created analytics.Configuration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.ID)

	rec = doJSON(t, srv, http.MethodGet, "/v1/configurations/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPut, "/v1/configurations/"+created.ID.String()+"/default", map[string]interface{}{
		"user_id": userID,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/configurations?user_id="+userID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/v1/configurations/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/configurations/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.CodeNotFound, errorCode(t, rec))
}

func TestConfigInvalidUUIDReturns400(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/v1/configurations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, errorCode(t, rec))
}
