package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"inspiration-backend/application/services"
	"inspiration-backend/domain/core/entities"
	"inspiration-backend/infrastructure/persistence/memory"
	pkgerrors "inspiration-backend/pkg/errors"
	"inspiration-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSynthesizer struct {
	mock.Mock
}

func (m *mockSynthesizer) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, prompt, size string) (json.RawMessage, error) {
	args := m.Called(ctx, prompt, size)
	if raw := args.Get(0); raw != nil {
		return raw.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		RequestID   string `json:"request_id"`
		Persistence string `json:"persistence"`
		Pagination  struct {
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type testServer struct {
	handler http.Handler
	synth   *mockSynthesizer
	content *services.ContentStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	storage := memory.NewKeyValueStore()
	logger := zap.NewNop()
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	opts := []services.Option{
		services.WithClock(func() time.Time { return now }),
		services.WithLocation(time.UTC),
	}

	content := services.NewContentStore(storage, logger, opts...)
	require.False(t, content.Load(context.Background()).Degraded())
	profile := services.NewProfileStore(storage, logger, opts...)
	synth := new(mockSynthesizer)

	router := NewRouter(content, profile, synth, observability.NewCollector("test"), RouterConfig{
		EnableCORS:       true,
		AllowedOrigins:   []string{"*"},
		EnableMetrics:    true,
		Location:         time.UTC,
		DefaultImageSize: "1024x1024",
		ImageRateLimit:   2,
	}, logger)

	return &testServer{handler: router.Setup(), synth: synth, content: content}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_InspirationLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var listed []entities.Inspiration
	env := decodeEnvelope(t, srv.do(t, "GET", "/api/inspirations", nil), &listed)
	assert.Len(t, listed, 3)
	assert.Equal(t, 3, env.Meta.Pagination.Total)

	rec := srv.do(t, "POST", "/api/inspirations", map[string]interface{}{
		"title": "散步", "content": "公园里的想法", "tags": []string{"生活", "户外"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entities.Inspiration
	env = decodeEnvelope(t, rec, &created)
	assert.Equal(t, "persisted", env.Meta.Persistence)
	assert.Equal(t, entities.TypeText, created.Type)

	rec = srv.do(t, "GET", "/api/inspirations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, "PUT", "/api/inspirations/"+created.ID, map[string]interface{}{"tags": []string{"户外", "运动"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated entities.Inspiration
	decodeEnvelope(t, rec, &updated)
	assert.Equal(t, []string{"户外", "运动"}, updated.Tags)
	assert.Equal(t, "散步", updated.Title)

	decodeEnvelope(t, srv.do(t, "GET", "/api/inspirations?tag="+url.QueryEscape("户外"), nil), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	rec = srv.do(t, "DELETE", "/api/inspirations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, "GET", "/api/inspirations/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_InspirationErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		errTyp pkgerrors.ErrorType
	}{
		{name: "delete missing", method: "DELETE", path: "/api/inspirations/nope", status: http.StatusNotFound, errTyp: pkgerrors.ErrorTypeNotFound},
		{name: "update missing", method: "PUT", path: "/api/inspirations/nope", body: map[string]string{"title": "x"}, status: http.StatusNotFound, errTyp: pkgerrors.ErrorTypeNotFound},
		{name: "empty patch", method: "PUT", path: "/api/inspirations/1", body: map[string]string{}, status: http.StatusBadRequest, errTyp: pkgerrors.ErrorTypeValidation},
		{name: "bad type", method: "POST", path: "/api/inspirations", body: map[string]string{"type": "video"}, status: http.StatusBadRequest, errTyp: pkgerrors.ErrorTypeValidation},
		{name: "unknown field", method: "POST", path: "/api/inspirations", body: map[string]string{"colour": "red"}, status: http.StatusBadRequest, errTyp: pkgerrors.ErrorTypeValidation},
		{name: "bad date", method: "GET", path: "/api/inspirations?date=15/03/2024", status: http.StatusBadRequest, errTyp: pkgerrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp pkgerrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.True(t, resp.Error)
			assert.Equal(t, string(tt.errTyp), resp.Type)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
	assert.Len(t, srv.content.All(), 3)
}

func TestRouter_ListByDate(t *testing.T) {
	srv := newTestServer(t)

	var listed []entities.Inspiration
	decodeEnvelope(t, srv.do(t, "GET", "/api/inspirations?date=2024-03-14", nil), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "2", listed[0].ID)

	decodeEnvelope(t, srv.do(t, "GET", "/api/inspirations?page=2&page_size=2", nil), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "3", listed[0].ID)
}

func TestRouter_Tags(t *testing.T) {
	srv := newTestServer(t)

	var tags struct {
		Tags   []string            `json:"tags"`
		Counts []entities.TagCount `json:"counts"`
	}
	decodeEnvelope(t, srv.do(t, "GET", "/api/tags", nil), &tags)
	assert.Equal(t, []string{"设计", "生活", "工作", "项目", "灵感快拍", "创意"}, tags.Tags)
	assert.Len(t, tags.Counts, 6)
}

func TestRouter_Profile(t *testing.T) {
	srv := newTestServer(t)

	var profile entities.UserProfile
	decodeEnvelope(t, srv.do(t, "PATCH", "/api/profile", map[string]string{"name": "小红"}), &profile)
	assert.Equal(t, "小红", profile.Name)

	rec := srv.do(t, "PATCH", "/api/profile", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var unlock struct {
		Unlocked bool                 `json:"unlocked"`
		Profile  entities.UserProfile `json:"profile"`
	}
	decodeEnvelope(t, srv.do(t, "POST", "/api/profile/achievements", map[string]string{"id": "a1", "name": "初次记录"}), &unlock)
	assert.True(t, unlock.Unlocked)
	assert.Equal(t, 345, unlock.Profile.Points)
	decodeEnvelope(t, srv.do(t, "POST", "/api/profile/achievements", map[string]string{"id": "a1", "name": "初次记录"}), &unlock)
	assert.False(t, unlock.Unlocked)
	assert.Equal(t, 345, unlock.Profile.Points)

	decodeEnvelope(t, srv.do(t, "POST", "/api/profile/onboarding", nil), &profile)
	assert.True(t, profile.OnboardingCompleted)
	assert.Equal(t, 395, profile.Points)

	decodeEnvelope(t, srv.do(t, "POST", "/api/profile/points", map[string]interface{}{"amount": 5, "reason": "签到"}), &profile)
	assert.Equal(t, 400, profile.Points)
	assert.Equal(t, "签到", profile.PointsHistory[0].Title)

	rec = srv.do(t, "POST", "/api/profile/points", map[string]interface{}{"amount": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	decodeEnvelope(t, srv.do(t, "PUT", "/api/profile/level", map[string]int{"level": 0}), &profile)
	assert.Equal(t, 0, profile.Level)

	var task struct {
		Completed bool `json:"completed"`
	}
	decodeEnvelope(t, srv.do(t, "POST", "/api/profile/tasks/daily", nil), &task)
	assert.True(t, task.Completed)
	decodeEnvelope(t, srv.do(t, "POST", "/api/profile/tasks/daily", nil), &task)
	assert.False(t, task.Completed)

	var prefs map[string]interface{}
	env := decodeEnvelope(t, srv.do(t, "PATCH", "/api/profile/preferences", map[string]interface{}{"theme": "dark"}), &prefs)
	assert.Equal(t, "persisted", env.Meta.Persistence)
	assert.Equal(t, map[string]interface{}{"theme": "dark"}, prefs)

	decodeEnvelope(t, srv.do(t, "GET", "/api/profile", nil), &profile)
	assert.Equal(t, "dark", profile.Preferences["theme"])
}

func TestRouter_AIGateway(t *testing.T) {
	t.Run("config and health report key state", func(t *testing.T) {
		srv := newTestServer(t)
		srv.synth.On("Enabled").Return(true)

		rec := srv.do(t, "GET", "/api/config", nil)
		assert.JSONEq(t, `{"aiEnabled":true}`, rec.Body.String())

		rec = srv.do(t, "GET", "/api/ai/health", nil)
		assert.JSONEq(t, `{"status":"ok","api_key_configured":true}`, rec.Body.String())
	})

	t.Run("missing prompt", func(t *testing.T) {
		srv := newTestServer(t)
		rec := srv.do(t, "POST", "/api/ai/generate-image", map[string]string{"size": "512x512"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"缺少必要参数 'prompt'"}`, rec.Body.String())
		srv.synth.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("default size and passthrough", func(t *testing.T) {
		srv := newTestServer(t)
		srv.synth.On("Synthesize", mock.Anything, "星空", "1024x1024").
			Return(json.RawMessage(`{"output":{"task_id":"t-1"}}`), nil)

		rec := srv.do(t, "POST", "/api/ai/generate-image", map[string]string{"prompt": "星空"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"output":{"task_id":"t-1"}}`, rec.Body.String())
		srv.synth.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := newTestServer(t)
		srv.synth.On("Synthesize", mock.Anything, "p", "1024x1024").Return(nil, errors.New("boom"))

		rec := srv.do(t, "POST", "/api/ai/generate-image", map[string]string{"prompt": "p"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
	})

	t.Run("missing key", func(t *testing.T) {
		srv := newTestServer(t)
		srv.synth.On("Synthesize", mock.Anything, "p", "1024x1024").Return(nil, pkgerrors.NewUnavailableError("dashscope"))

		rec := srv.do(t, "POST", "/api/ai/generate-image", map[string]string{"prompt": "p"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		srv := newTestServer(t)
		srv.synth.On("Synthesize", mock.Anything, "p", "1024x1024").Return(json.RawMessage(`{}`), nil)

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, srv.do(t, "POST", "/api/ai/generate-image", map[string]string{"prompt": "p"}).Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, srv.do(t, "POST", "/api/ai/generate-image", map[string]string{"prompt": "p"}).Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, "GET", "/api/tags", nil)

	rec := srv.do(t, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",route="/api/tags",status="200"} 1`)
}
