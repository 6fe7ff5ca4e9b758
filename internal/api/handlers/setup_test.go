package handlers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/go-planner/internal/api"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
	"github.com/hugh/go-planner/internal/testutil"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

type testServer struct {
	*testutil.TestSetup
	handler http.Handler
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tc := testutil.NewTestContext(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.New(tc.DB)

	router := api.NewRouter(api.RouterConfig{
		DB:          tc.DB,
		Logger:      logger,
		Tokens:      tc.JWTService,
		AuthService: auth.NewService(tc.DB, tc.JWTService, logger),
		Repository:  repo,
		Service:     service.New(tc.DB, repo, logger),
	})
	return &testServer{TestSetup: tc, handler: router}
}

// do sends a request with the given bearer token ("" for none) and decodes
// the envelope.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rr := serve(s, testutil.AuthenticatedRequest(t, method, path, body, token))

	var env envelope
	testutil.ParseJSONResponse(t, rr, &env)
	return rr, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), "data: %s", string(env.Data))
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}
