package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/listbot/internal/logging"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/domain"
	"github.com/aretw0/listbot/pkg/listops"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the engine and the router over HTTP.
type Server struct {
	router       *bot.Router
	spec         *openapi3.T
	metrics      http.Handler
	version      string
	limits       bot.Limits
	maxInputSize int
	logger       *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts a metrics handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLimits bounds the work a /transform request may cause.
func WithLimits(limits bot.Limits) Option {
	return func(s *Server) {
		s.limits = limits
	}
}

// WithMaxInputSize sets the largest accepted text in bytes.
func WithMaxInputSize(size int) Option {
	return func(s *Server) {
		s.maxInputSize = size
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler. It fails when the embedded OpenAPI document is invalid.
func NewHandler(router *bot.Router, opts ...Option) (http.Handler, error) {
	spec, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:  router,
		spec:    spec,
		version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/transform/{op}", s.Transform)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/messages", s.SendMessage)
			r.Post("/commands/{command}", s.SendCommand)
			r.Post("/callbacks", s.SendCallback)
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>listbot API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// TransformRequest is the body of POST /transform/{op}.
type TransformRequest struct {
	Text  string   `json:"text,omitempty"`
	Lists []string `json:"lists,omitempty"`
}

// TransformResponse is the tagged engine result plus its display text.
type TransformResponse struct {
	Op      listops.Op `json:"op"`
	Found   bool       `json:"found"`
	Text    string     `json:"text,omitempty"`
	Lines   []string   `json:"lines,omitempty"`
	Display string     `json:"display"`
}

// RepliesResponse wraps the replies of a session operation.
type RepliesResponse struct {
	SessionID string         `json:"session_id"`
	Replies   []domain.Reply `json:"replies"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "listbot-http",
		"version":     strings.TrimSpace(s.version),
		"api_version": apiVersion,
	})
}

// Transform handles the POST /transform/{op} request.
func (s *Server) Transform(w http.ResponseWriter, r *http.Request) {
	op, err := listops.ParseOp(chi.URLParam(r, "op"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	var body TransformRequest
	if !s.decode(w, r, "TransformRequest", &body) {
		return
	}

	inputs := body.Lists
	if len(inputs) == 0 {
		inputs = []string{body.Text}
	}
	for i, in := range inputs {
		clean, err := bot.SanitizeInput(in, s.maxInputSize)
		if err != nil {
			s.logger.Warn("Transform: Input rejected", "err", err, "size", len(in))
			status := http.StatusBadRequest
			if errors.Is(err, bot.ErrInputTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			s.writeError(w, status, err)
			return
		}
		inputs[i] = clean
	}

	if op == listops.OpExpand && s.limits.MaxExpandedTokens > 0 && len(inputs) == 1 {
		if n := listops.ExpandedCount(inputs[0]); n > s.limits.MaxExpandedTokens {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Errorf("expansion produces %d IDs, limit is %d", n, s.limits.MaxExpandedTokens))
			return
		}
	}

	res, err := listops.Apply(op, inputs...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, TransformResponse{
		Op:      res.Op,
		Found:   res.Found,
		Text:    res.Text,
		Lines:   res.Lines,
		Display: res.Display(),
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.router.Sessions().List(r.Context())
	if err != nil {
		s.logger.Error("ListSessions failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.router.Sessions().Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRouterError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.router.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeRouterError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage handles the POST /sessions/{id}/messages request.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, "MessageRequest", &body) {
		return
	}
	id := chi.URLParam(r, "id")
	replies, err := s.router.HandleText(r.Context(), id, body.Text)
	s.writeReplies(w, id, replies, err)
}

// SendCommand handles the POST /sessions/{id}/commands/{command} request.
func (s *Server) SendCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	replies, err := s.router.HandleCommand(r.Context(), id, chi.URLParam(r, "command"))
	s.writeReplies(w, id, replies, err)
}

// SendCallback handles the POST /sessions/{id}/callbacks request.
func (s *Server) SendCallback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Data string `json:"data"`
	}
	if !s.decode(w, r, "CallbackRequest", &body) {
		return
	}
	id := chi.URLParam(r, "id")
	replies, err := s.router.HandleCallback(r.Context(), id, body.Data)
	s.writeReplies(w, id, replies, err)
}

// -- Helpers --

// decode reads a JSON body, checks it against the named schema of the OpenAPI document
// and unmarshals it into dst. It writes the error response itself.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schemaName string, dst any) bool {
	limit := int64(bot.ResolveMaxInputSize(s.maxInputSize))
	// Room for JSON escaping and a second list.
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4*limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err)
			return false
		}
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}

	sc, err := schema(s.spec, schemaName)
	if err != nil {
		s.logger.Error("Schema lookup failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return false
	}
	if err := sc.VisitJSON(generic); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) writeReplies(w http.ResponseWriter, id string, replies []domain.Reply, err error) {
	if err != nil {
		s.writeRouterError(w, err)
		return
	}
	if replies == nil {
		replies = []domain.Reply{}
	}
	s.writeJSON(w, http.StatusOK, RepliesResponse{SessionID: id, Replies: replies})
}

func (s *Server) writeRouterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnknownCommand),
		errors.Is(err, domain.ErrUnknownCallback):
		s.writeError(w, http.StatusNotFound, err)
	default:
		s.logger.Error("Router failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
