package relayer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/chainsafe/htlc-relayer/pkg/relayer"
	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEngine struct {
	ready bool
	state relayer.State
	last  int64
}

func (f *fakeEngine) IsReady() bool           { return f.ready }
func (f *fakeEngine) State() relayer.State    { return f.state }
func (f *fakeEngine) LastBlockChecked() int64 { return f.last }
func (f *fakeEngine) CursorKey() string       { return "relayer-0/1337" }

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) ListFinalizations(ctx context.Context, limit int) ([]*transfer.Finalization, error) {
	args := m.Called(ctx, limit)
	out, _ := args.Get(0).([]*transfer.Finalization)
	return out, args.Error(1)
}

func (m *mockJournal) GetFinalizationsByCommitment(ctx context.Context, c transfer.Commitment) ([]*transfer.Finalization, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).([]*transfer.Finalization)
	return out, args.Error(1)
}

func newTestRouter(t *testing.T, engine EngineStatus, journal FinalizationReader) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.Monitoring.Enabled = true
	cfg.Relayer.ReplicaCount = 2
	cfg.Relayer.ReplicaOffset = 1
	return NewServer(cfg).newRouter(engine, journal, zap.NewNop())
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndReady(t *testing.T) {
	engine := &fakeEngine{}
	router := newTestRouter(t, engine, nil)

	rec := serve(router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = serve(router, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	engine.ready = true
	rec = serve(router, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestRouter(t, &fakeEngine{}, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetStatus(t *testing.T) {
	engine := &fakeEngine{ready: true, state: relayer.StateScanning, last: 99}
	rec := serve(newTestRouter(t, engine, nil), "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body.Status)
	assert.Equal(t, "scanning", body.State)
	assert.True(t, body.Ready)
	assert.Equal(t, "relayer-0/1337", body.CursorKey)
	assert.Equal(t, int64(99), body.LastBlockChecked)
	assert.Equal(t, 2, body.ReplicaCount)
	assert.Equal(t, 1, body.ReplicaOffset)
}

func TestFinalizationRoutesRequireJournal(t *testing.T) {
	rec := serve(newTestRouter(t, &fakeEngine{}, nil), "/api/v1/finalizations")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListFinalizations(t *testing.T) {
	journal := new(mockJournal)
	router := newTestRouter(t, &fakeEngine{}, journal)

	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	journal.On("ListFinalizations", mock.Anything, defaultListLimit).Return([]*transfer.Finalization{{
		ID:         "id-1",
		Commitment: transfer.Commitment{0x01},
		Outcome:    "success",
		TxHash:     "0xabc",
		DestBlock:  7,
		CreatedAt:  created,
	}}, nil).Once()
	journal.On("ListFinalizations", mock.Anything, 5).Return([]*transfer.Finalization{}, nil).Once()

	rec := serve(router, "/api/v1/finalizations")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Finalizations []finalizationResponse `json:"finalizations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Finalizations, 1)
	assert.Equal(t, "id-1", body.Finalizations[0].ID)
	assert.Equal(t, transfer.Commitment{0x01}.Hex(), body.Finalizations[0].Commitment)
	assert.Equal(t, uint64(7), body.Finalizations[0].DestBlock)
	assert.True(t, created.Equal(body.Finalizations[0].CreatedAt))

	rec = serve(router, "/api/v1/finalizations?limit=5")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, "/api/v1/finalizations?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	journal.AssertExpectations(t)
}

func TestListFinalizations_StoreError(t *testing.T) {
	journal := new(mockJournal)
	journal.On("ListFinalizations", mock.Anything, defaultListLimit).Return(nil, errors.New("db down"))

	rec := serve(newTestRouter(t, &fakeEngine{}, journal), "/api/v1/finalizations")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetFinalizations(t *testing.T) {
	journal := new(mockJournal)
	router := newTestRouter(t, &fakeEngine{}, journal)

	found := transfer.Commitment{0x0a}
	missing := transfer.Commitment{0x0b}
	journal.On("GetFinalizationsByCommitment", mock.Anything, found).Return([]*transfer.Finalization{
		{ID: "a", Commitment: found, Outcome: "submission_failed", Reason: "timeout"},
		{ID: "b", Commitment: found, Outcome: "success"},
	}, nil)
	journal.On("GetFinalizationsByCommitment", mock.Anything, missing).Return(nil, nil)

	rec := serve(router, "/api/v1/finalizations/"+found.Hex())
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Finalizations []finalizationResponse `json:"finalizations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Finalizations, 2)
	assert.Equal(t, "timeout", body.Finalizations[0].Reason)

	rec = serve(router, "/api/v1/finalizations/"+missing.Hex())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, "/api/v1/finalizations/0x1234")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
