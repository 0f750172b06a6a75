// Package httpapi adapts the services to net/http. The same handlers back the
// Cloud Functions entry points and the local server.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/idpflow/internal/invocation"
	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Intaker interface {
	Process(ctx context.Context, req *models.IntakeRequest) (*models.IntakeResponse, error)
}

type Stages interface {
	Extract(ctx context.Context, req *models.ExtractRequest) *models.ExtractResponse
	Classify(ctx context.Context, req *models.StageRequest) *models.ClassifyResponse
	Summarize(ctx context.Context, req *models.StageRequest) *models.SummarizeResponse
}

type EventProcessor interface {
	Process(ctx context.Context, e models.StorageEvent) (*models.ProcessResponse, error)
}

type ResultsLookup interface {
	Process(ctx context.Context, documentID, table string) (*models.Document, error)
}

// SetCORSHeaders allows browser uploads from any origin.
func SetCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Allow-Methods", "OPTIONS,POST,GET")
}

// preflight answers OPTIONS requests and reports whether it did.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	SetCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// executionIDHeader is set by the Cloud Functions runtime on every request.
const executionIDHeader = "Function-Execution-Id"

// stageContext stamps the runtime's execution id, or the router's request
// id, as the invocation id.
func stageContext(r *http.Request) context.Context {
	ctx := r.Context()
	if id := r.Header.Get(executionIDHeader); id != "" {
		return invocation.WithID(ctx, id)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		return invocation.WithID(ctx, id)
	}
	return ctx
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response.", "error", err)
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func Intake(f Intaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if preflight(w, r) {
			return
		}
		var req models.IntakeRequest
		if err := decode(r, &req); err != nil {
			slog.Error("Could not decode request body.", "error", err)
			writeJSON(w, http.StatusBadRequest, models.IntakeResponse{StatusCode: http.StatusBadRequest, Error: "could not parse JSON"})
			return
		}
		resp, err := f.Process(r.Context(), &req)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, models.IntakeResponse{StatusCode: models.StatusCodeError, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func Extract(f Stages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ExtractRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ExtractResponse{StatusCode: http.StatusBadRequest, Error: "could not parse JSON"})
			return
		}
		resp := f.Extract(stageContext(r), &req)
		writeJSON(w, resp.StatusCode, resp)
	}
}

func Classify(f Stages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.StageRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ClassifyResponse{StatusCode: http.StatusBadRequest, Error: "could not parse JSON"})
			return
		}
		resp := f.Classify(stageContext(r), &req)
		writeJSON(w, resp.StatusCode, resp)
	}
}

func Summarize(f Stages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.StageRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.SummarizeResponse{StatusCode: http.StatusBadRequest, Error: "could not parse JSON"})
			return
		}
		resp := f.Summarize(stageContext(r), &req)
		writeJSON(w, resp.StatusCode, resp)
	}
}

// StorageEvent accepts a storage-arrival notification posted as JSON.
func StorageEvent(f EventProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e models.StorageEvent
		if err := decode(r, &e); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ProcessResponse{StatusCode: http.StatusBadRequest, Error: "could not parse JSON"})
			return
		}
		resp, err := f.Process(stageContext(r), e)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ProcessResponse{StatusCode: models.StatusCodeError, DocumentID: e.ObjectKey(), Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Results looks a record up by the documentId route parameter, falling back
// to the query string for the function entry point.
func Results(f ResultsLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if preflight(w, r) {
			return
		}
		documentID := chi.URLParam(r, "documentId")
		if documentID == "" {
			documentID = r.URL.Query().Get("documentId")
		}
		doc, err := f.Process(r.Context(), documentID, r.URL.Query().Get("tableName"))
		switch {
		case errors.Is(err, services.ErrMissingDocumentID):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrResultNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Document not found"})
		case err != nil:
			slog.Error("Failed to look up document.", "documentId", documentID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusOK, doc)
		}
	}
}
