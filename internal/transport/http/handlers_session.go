package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pensionledger/internal/transport/http/shared"
	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
	admingate "pensionledger/pkg/platform/middleware/admin"
	"pensionledger/pkg/requestcontext"
)

// SessionIssuer issues and validates admin session tokens.
type SessionIssuer interface {
	Issue(caller id.Identity, now time.Time) (string, error)
	Validate(token string) (id.Identity, error)
}

// sessionHandler exchanges the admin token for a short-lived session JWT so
// the long-lived credential stays off the wire after login.
type sessionHandler struct {
	credential admingate.Credential
	sessions   SessionIssuer
	logger     *slog.Logger
}

func newSessionHandler(credential admingate.Credential, sessions SessionIssuer, logger *slog.Logger) *sessionHandler {
	return &sessionHandler{credential: credential, sessions: sessions, logger: logger}
}

func (h *sessionHandler) Register(r chi.Router) {
	r.Post("/admin/session", h.handleCreateSession)
}

func (h *sessionHandler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.sessions == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "session tokens are not configured"))
		return
	}
	token := r.Header.Get(admingate.TokenHeader)
	if !h.credential.Verify(token) {
		h.logger.WarnContext(ctx, "session creation rejected",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
		return
	}

	signed, err := h.sessions.Issue(h.credential.Identity, requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "session token issuance failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to issue session token"))
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{"token": signed})
}
