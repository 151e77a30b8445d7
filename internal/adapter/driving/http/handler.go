package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/socialpilot/socialpilot/internal/application"
	"github.com/socialpilot/socialpilot/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	tokens         *application.TokenService
	publisher      *application.PublishService
	defaultAccount string
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	tokens *application.TokenService,
	publisher *application.PublishService,
	defaultAccount string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		tokens:         tokens,
		publisher:      publisher,
		defaultAccount: defaultAccount,
		logger:         logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/token/check", h.CheckToken)
	mux.HandleFunc("GET /api/v1/token/exchange", h.ExchangeToken)
	mux.HandleFunc("POST /api/v1/posts", h.CreatePost)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// CheckToken reports whether a usable credential is stored for the account.
func (h *Handler) CheckToken(w http.ResponseWriter, r *http.Request) {
	account := h.account(r.URL.Query().Get("account"))
	if account == "" {
		writeError(w, http.StatusBadRequest, "account is required")
		return
	}

	valid, err := h.tokens.HasValidCredential(r.Context(), account)
	if err != nil {
		h.logger.Error("failed to check credential", "account", account, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenCheckResponse{Account: account, Valid: valid})
}

// ExchangeToken exchanges an authorization code for a stored credential. The
// call is idempotent: with a usable credential already stored the code is not
// spent and the stored credential is reported instead.
func (h *Handler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	account := h.account(q.Get("account"))
	code := q.Get("code")
	redirectURI := q.Get("redirect_uri")

	if account == "" {
		writeError(w, http.StatusBadRequest, "account is required")
		return
	}
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	if redirectURI == "" {
		writeError(w, http.StatusBadRequest, "redirect_uri is required")
		return
	}

	cred, err := h.tokens.ExchangeGrant(r.Context(), account, code, redirectURI)
	if err != nil {
		var exErr *application.ExchangeError
		if errors.As(err, &exErr) && exErr.StatusCode != 0 {
			h.logger.Error("grant exchange rejected",
				"account", account,
				"status", exErr.StatusCode,
				"body", exErr.Body,
			)
			writeError(w, http.StatusBadGateway, "provider rejected the grant exchange")
			return
		}
		h.logger.Error("grant exchange failed", "account", account, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenExchangeResponse{
		Account:   cred.AccountKey,
		MemberID:  cred.MemberID,
		ExpiresAt: cred.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// CreatePost publishes a single post on demand, outside the scheduler.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account := h.account(req.Account)
	if account == "" {
		writeError(w, http.StatusBadRequest, "account is required")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	mediaType := model.ParseMediaType(req.MediaType)
	if req.MediaURL != "" && mediaType == model.MediaTypeNone {
		writeError(w, http.StatusBadRequest, "media_type must be image or video when media_url is set")
		return
	}

	if err := h.publisher.Publish(r.Context(), account, req.Text, req.MediaURL, mediaType); err != nil {
		h.writePublishError(w, account, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatePostResponse{
		Account:  account,
		HasMedia: req.MediaURL != "" && mediaType != model.MediaTypeNone,
	})
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// account falls back to the configured default when the request omits one.
func (h *Handler) account(requested string) string {
	if requested != "" {
		return requested
	}
	return h.defaultAccount
}

// writePublishError maps a publish failure to an HTTP status by its kind.
func (h *Handler) writePublishError(w http.ResponseWriter, account string, err error) {
	var pubErr *application.PublishError
	if !errors.As(err, &pubErr) {
		h.logger.Error("publish failed", "account", account, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Error("publish failed",
		"account", account,
		"kind", string(pubErr.Kind),
		"status", pubErr.StatusCode,
		"error", err,
	)

	switch pubErr.Kind {
	case application.PublishUnauthenticated:
		writeError(w, http.StatusUnauthorized, "account is not linked or the credential expired")
	case application.PublishMissingAccountID:
		writeError(w, http.StatusUnprocessableEntity, "media posts require a resolved member id")
	case application.PublishMediaFailed:
		writeError(w, http.StatusBadGateway, "media upload failed")
	case application.PublishRemoteRejected:
		writeError(w, http.StatusBadGateway, "provider rejected the post")
	default:
		writeError(w, http.StatusBadGateway, "provider unreachable")
	}
}
