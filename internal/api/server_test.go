package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/internal/testutils"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

type ServerTestSuite struct {
	testutils.BaseTestSuite
	store   *storage.SQLStore
	server  *Server
	handler http.Handler
}

func (s *ServerTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.store = testutils.NewTestStorage(s.T(), storage.WithClock(func() time.Time { return clock }))
	s.server = NewServer(0, &config.Manager{}, s.store, s.GetTestLogger().WithField("test", "api"))
	s.handler = s.server.Handler()
}

func (s *ServerTestSuite) seed() {
	params := storage.Parameters{
		{Name: "id", Type: "integer", Value: "1", Required: true, Description: "User id"},
	}
	s.Require().NoError(s.store.InsertDoc(s.GetTestContext(), &storage.ApiDoc{
		Identifier: "a", Title: "List users", Method: "GET", URI: "/api/users",
	}))
	s.Require().NoError(s.store.InsertDoc(s.GetTestContext(), &storage.ApiDoc{
		Identifier: "b", Title: "Show user", Method: "GET", URI: "/api/users/{id}", Parameters: params,
	}))
}

func (s *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (s *ServerTestSuite) TestListDocsEmpty() {
	w := s.get("/api/docs")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/json", w.Header().Get("Content-Type"))
	s.JSONEq(`[]`, w.Body.String())
}

func (s *ServerTestSuite) TestListDocs() {
	s.seed()

	w := s.get("/api/docs")
	s.Require().Equal(http.StatusOK, w.Code)

	body := gjson.Parse(w.Body.String())
	s.True(body.IsArray(), "records are served without an envelope")
	s.Len(body.Array(), 2)
	s.Equal(int64(1), body.Get("0.id").Int())
	s.Equal("List users", body.Get("0.title").String())
	s.False(body.Get("0.params").Exists())
	s.Equal("2024-05-01T10:00:00Z", body.Get("0.created_at").String())

	s.Equal("id", body.Get("1.params.0.title").String())
	s.Equal("integer", body.Get("1.params.0.type").String())
	s.Equal("1", body.Get("1.params.0.example_value").String())
	s.True(body.Get("1.params.0.required").Bool())
}

func (s *ServerTestSuite) TestGetDoc() {
	s.seed()

	w := s.get("/api/docs/2")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("/api/users/{id}", gjson.Get(w.Body.String(), "uri").String())

	s.Equal(http.StatusNotFound, s.get("/api/docs/99").Code)
	s.Equal(http.StatusBadRequest, s.get("/api/docs/abc").Code)
	s.Equal(http.StatusOK, s.get("/api/docs/").Code)
}

func (s *ServerTestSuite) TestDocsAreReadOnly() {
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/docs", nil))

	s.Equal(http.StatusMethodNotAllowed, w.Code)
	s.Equal("GET, HEAD", w.Header().Get("Allow"))
}

func (s *ServerTestSuite) TestPreflight() {
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/docs", nil))

	s.Equal(http.StatusOK, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *ServerTestSuite) TestHealthWithoutRuntime() {
	w := s.get("/health")

	s.Equal(http.StatusOK, w.Code)
	s.True(gjson.Get(w.Body.String(), "data.healthy").Bool())
	s.Equal("healthy", gjson.Get(w.Body.String(), "data.components.storage").String())
}

func (s *ServerTestSuite) TestHealthWithRuntime() {
	rt := &MockRuntimeProvider{}
	rt.On("Health", testutils.MockAny).Return(RuntimeHealthStatus{
		Healthy:    false,
		Components: map[string]ComponentHealth{"storage": {Status: "unhealthy", Error: "disk full"}},
	})
	s.server.SetRuntime(rt)

	w := s.get("/health")

	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal("disk full", gjson.Get(w.Body.String(), "data.components.storage.error").String())
	rt.AssertExpectations(s.T())
}

func (s *ServerTestSuite) TestProbes() {
	s.Equal("alive", gjson.Get(s.get("/health/live").Body.String(), "data.status").String())
	s.Equal("ready", gjson.Get(s.get("/health/ready").Body.String(), "data.status").String())
}

func (s *ServerTestSuite) TestStatus() {
	s.seed()
	s.server.SetRuntime(NewMockRuntimeProvider())

	w := s.get("/status")
	s.Require().Equal(http.StatusOK, w.Code)

	body := gjson.Parse(w.Body.String())
	s.Equal(int64(2), body.Get("data.docs.total_docs").Int())
	s.Equal("running", body.Get("data.runtime.state").String())
}

func (s *ServerTestSuite) TestVersionAndIndex() {
	s.Equal("v1", gjson.Get(s.get("/version").Body.String(), "data.api_version").String())

	index := gjson.Get(s.get("/api").Body.String(), "data")
	s.Equal("RouteScribe API", index.Get("name").String())
	s.True(index.Get(`endpoints.docs.GET /api/docs`).Exists())
}

func (s *ServerTestSuite) TestMetricsEndpoint() {
	s.get("/api/docs")

	w := s.get("/metrics")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "routescribe_http_requests_total")
}

func (s *ServerTestSuite) TestOptionalEndpointsFollowConfig() {
	cfg := testutils.CreateTestConfig()
	cfg.API = types.APIConfig{Port: 8080}
	mgr := &config.Manager{}
	mgr.SetConfig(cfg)

	handler := NewServer(0, mgr, s.store, s.GetTestLogger().WithField("test", "api")).Handler()

	for _, path := range []string{"/metrics", "/swagger/index.html"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		s.Equal(http.StatusNotFound, w.Code, path)
	}
}

func (s *ServerTestSuite) TestStartStop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server := NewServer(0, nil, s.store, s.GetTestLogger().WithField("test", "api"))
	s.NoError(server.Start(ctx))
	s.NoError(server.Stop(ctx))
}

func (s *ServerTestSuite) TestStorageErrors() {
	store := testutils.NewMockStorage()
	store.On("ListDocs", testutils.MockAny).Return(nil, errors.New("database is locked"))
	store.On("GetDoc", testutils.MockAny, int64(3)).Return(nil, errors.New("database is locked"))

	handler := NewServer(0, nil, store, s.GetTestLogger().WithField("test", "api")).Handler()

	for _, path := range []string{"/api/docs", "/api/docs/3"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		s.Equal(http.StatusInternalServerError, w.Code, path)
		s.False(gjson.Get(w.Body.String(), "success").Bool())
		s.NotContains(w.Body.String(), "locked", "storage errors are not leaked")
	}
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
