package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ihsan/internal/donation"
	jwttoken "ihsan/internal/jwt_token"
	"ihsan/internal/pipeline"
)

type fakeRunner struct {
	summary pipeline.Summary
	err     error
	calls   int
}

func (f *fakeRunner) Run(_ context.Context) (pipeline.Summary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeLoader struct {
	dataset donation.Dataset
	err     error
}

func (f *fakeLoader) Load() (donation.Dataset, error) {
	return f.dataset, f.err
}

type fakeHolder struct {
	replaced *donation.Dataset
}

func (f *fakeHolder) Replace(ds donation.Dataset) {
	f.replaced = &ds
}

var testJWT = jwttoken.NewJWTService("test-key", "ihsan", "ihsan-admin")

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := testJWT.GenerateToken(uuid.New(), "admin", time.Hour)
	require.NoError(t, err)
	return token
}

func newAdminServer(t *testing.T, runner Runner, loader Loader, holder DatasetHolder) *httptest.Server {
	t.Helper()
	svc, err := NewService(runner, loader, holder,
		WithLogger(slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))))
	require.NoError(t, err)

	h := NewHandler(svc, slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)),
		jwttoken.NewJWTServiceAdapter(testJWT))
	r := chi.NewRouter()
	h.Register(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func postReprocess(t *testing.T, server *httptest.Server, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, server.URL+"/admin/reprocess", nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleReprocess(t *testing.T) {
	runner := &fakeRunner{summary: pipeline.Summary{RunID: "run-1", Processed: 42}}
	holder := &fakeHolder{}
	server := newAdminServer(t, runner, &fakeLoader{
		dataset: donation.Dataset{Enriched: true},
	}, holder)

	resp := postReprocess(t, server, adminToken(t))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var summary pipeline.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 42, summary.Processed)
	assert.Equal(t, 1, runner.calls)
	require.NotNil(t, holder.replaced)
	assert.True(t, holder.replaced.Enriched)
}

func TestHandleReprocess_RequiresToken(t *testing.T) {
	runner := &fakeRunner{}
	server := newAdminServer(t, runner, &fakeLoader{}, &fakeHolder{})

	resp := postReprocess(t, server, "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, runner.calls)
}

func TestHandleReprocess_RejectsInvalidToken(t *testing.T) {
	runner := &fakeRunner{}
	server := newAdminServer(t, runner, &fakeLoader{}, &fakeHolder{})

	resp := postReprocess(t, server, "not-a-token")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, runner.calls)
}

func TestHandleReprocess_RunFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("raw file missing")}
	server := newAdminServer(t, runner, &fakeLoader{}, &fakeHolder{})

	resp := postReprocess(t, server, adminToken(t))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "internal_error", body["error"])
}

func TestServiceReprocess_SerializesRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	runner := &blockingRunner{started: started, release: release}
	svc, err := NewService(runner, &fakeLoader{}, &fakeHolder{})
	require.NoError(t, err)

	go func() {
		_, _ = svc.Reprocess(context.Background())
	}()
	<-started

	_, err = svc.Reprocess(context.Background())
	close(release)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRunner) Run(_ context.Context) (pipeline.Summary, error) {
	close(b.started)
	<-b.release
	return pipeline.Summary{}, nil
}
