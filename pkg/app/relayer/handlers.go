package relayer

import (
	"context"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/chainsafe/htlc-relayer/pkg/app/errors"
	apphttp "github.com/chainsafe/htlc-relayer/pkg/app/http"
	"github.com/chainsafe/htlc-relayer/pkg/relayer"
	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const defaultListLimit = 100

// FinalizationReader reads the finalization journal.
type FinalizationReader interface {
	ListFinalizations(ctx context.Context, limit int) ([]*transfer.Finalization, error)
	GetFinalizationsByCommitment(ctx context.Context, commitment transfer.Commitment) ([]*transfer.Finalization, error)
}

// EngineStatus is the view of the relay engine exposed over HTTP.
type EngineStatus interface {
	IsReady() bool
	State() relayer.State
	LastBlockChecked() int64
	CursorKey() string
}

type statusResponse struct {
	Status           string `json:"status"`
	State            string `json:"state"`
	Ready            bool   `json:"ready"`
	CursorKey        string `json:"cursor_key"`
	LastBlockChecked int64  `json:"last_block_checked"`
	ReplicaCount     int    `json:"replica_count"`
	ReplicaOffset    int    `json:"replica_offset"`
}

type finalizationResponse struct {
	ID         string    `json:"id"`
	Commitment string    `json:"commitment"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	TxHash     string    `json:"tx_hash,omitempty"`
	DestBlock  uint64    `json:"dest_block"`
	DestTxHash string    `json:"dest_tx_hash"`
	CreatedAt  time.Time `json:"created_at"`
}

func toFinalizationResponses(in []*transfer.Finalization) []finalizationResponse {
	out := make([]finalizationResponse, 0, len(in))
	for _, f := range in {
		out = append(out, finalizationResponse{
			ID:         f.ID,
			Commitment: f.Commitment.Hex(),
			Outcome:    f.Outcome,
			Reason:     f.Reason,
			TxHash:     f.TxHash,
			DestBlock:  f.DestBlock,
			DestTxHash: f.DestTxHash,
			CreatedAt:  f.CreatedAt,
		})
	}
	return out
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func handleReady(engine EngineStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !engine.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}

func handleGetStatus(engine EngineStatus, replicaCount, replicaOffset int) apphttp.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return apphttp.WriteJSON(w, http.StatusOK, statusResponse{
			Status:           "running",
			State:            engine.State().String(),
			Ready:            engine.IsReady(),
			CursorKey:        engine.CursorKey(),
			LastBlockChecked: engine.LastBlockChecked(),
			ReplicaCount:     replicaCount,
			ReplicaOffset:    replicaOffset,
		})
	}
}

func handleListFinalizations(journal FinalizationReader) apphttp.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit := defaultListLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return apperrors.BadRequestError(err, "invalid limit")
			}
			limit = n
		}

		items, err := journal.ListFinalizations(r.Context(), limit)
		if err != nil {
			return apperrors.DependencyError(err, "failed to list finalizations")
		}
		return apphttp.WriteJSON(w, http.StatusOK, map[string]any{"finalizations": toFinalizationResponses(items)})
	}
}

func handleGetFinalizations(journal FinalizationReader) apphttp.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		commitment, err := transfer.CommitmentFromHex(chi.URLParam(r, "commitment"))
		if err != nil {
			return apperrors.BadRequestError(err, "invalid commitment")
		}

		items, err := journal.GetFinalizationsByCommitment(r.Context(), commitment)
		if err != nil {
			return apperrors.DependencyError(err, "failed to get finalizations")
		}
		if len(items) == 0 {
			return apperrors.ResourceNotFoundError(nil, "no finalizations for commitment")
		}
		return apphttp.WriteJSON(w, http.StatusOK, map[string]any{"finalizations": toFinalizationResponses(items)})
	}
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
