// Package translate implements the HTTP adapter for the translation API.
package translate

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bnema/zerowrap"

	"github.com/bnema/virtdock/internal/boundaries/in"
	"github.com/bnema/virtdock/internal/boundaries/out"
	"github.com/bnema/virtdock/internal/domain"
)

// maxConfigRequestSize is the maximum allowed size for translate request bodies.
const maxConfigRequestSize = 1 << 20 // 1MB

// EncoderFactory returns the encoder for a format name.
type EncoderFactory func(format string) (out.DefinitionEncoder, error)

// Handler implements the HTTP handler for the translation API.
type Handler struct {
	translator    in.Translator
	encoders      EncoderFactory
	defaultFormat string
	log           zerowrap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Path  string `json:"path,omitempty"`
}

// NewHandler creates a new translate HTTP handler.
func NewHandler(translator in.Translator, encoders EncoderFactory, defaultFormat string, log zerowrap.Logger) *Handler {
	return &Handler{
		translator:    translator,
		encoders:      encoders,
		defaultFormat: defaultFormat,
		log:           log,
	}
}

// RegisterRoutes registers the API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/translate", h.handleTranslate)
	mux.HandleFunc("/healthz", h.handleHealth)
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	ctx := zerowrap.CtxWithFields(r.Context(), map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "http",
		zerowrap.FieldHandler: "translate",
		zerowrap.FieldMethod:  r.Method,
		zerowrap.FieldPath:    r.URL.Path,
	})
	log := zerowrap.FromCtx(ctx)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.sendError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = h.defaultFormat
	}
	enc, err := h.encoders(format)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigRequestSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.sendError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		h.sendError(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	def, err := h.translator.Translate(ctx, body)
	if err != nil {
		resp := errorResponse{Error: err.Error(), Kind: domain.ErrorKind(err)}
		var terr *domain.TranslationError
		if errors.As(err, &terr) {
			resp.Path = terr.Path
		}
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Msg("translation failed")
		}
		h.sendError(w, status, resp)
		return
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, def); err != nil {
		log.Error().Err(err).Str("format", format).Msg("failed to encode definition")
		h.sendError(w, http.StatusInternalServerError, errorResponse{Error: "failed to encode definition"})
		return
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.sendError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps translation error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedField), errors.Is(err, domain.ErrConstraintViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sendJSON sends a JSON response.
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func (h *Handler) sendError(w http.ResponseWriter, status int, resp errorResponse) {
	h.sendJSON(w, status, resp)
}
