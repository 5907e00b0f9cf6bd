package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inspirehub/internal/adapters/http/dto"
	"github.com/jsamuelsen/inspirehub/internal/app"
	"github.com/jsamuelsen/inspirehub/internal/domain"
)

// SessionHandler serves sign-in, registration and sign-out.
type SessionHandler struct {
	session *app.Session
}

// NewSessionHandler creates the handler.
func NewSessionHandler(session *app.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// Current handles GET /api/v1/session.
func (h *SessionHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, sessionResponse(h.session.Current()))
}

// Login handles POST /api/v1/session/login.
func (h *SessionHandler) Login(c *gin.Context) {
	h.signIn(c, h.session.Login, http.StatusOK)
}

// Register handles POST /api/v1/session/register.
func (h *SessionHandler) Register(c *gin.Context) {
	h.signIn(c, h.session.Register, http.StatusCreated)
}

// Logout handles DELETE /api/v1/session.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type signInFunc func(ctx context.Context, username string) (domain.User, error)

func (h *SessionHandler) signIn(c *gin.Context, fn signInFunc, status int) {
	var req dto.CredentialsRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	user, err := fn(c.Request.Context(), req.Username)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(status, sessionResponse(user, true))
}

func sessionResponse(user domain.User, ok bool) dto.SessionResponse {
	if !ok {
		return dto.SessionResponse{}
	}

	u := dto.FromUser(user)

	return dto.SessionResponse{Authenticated: true, User: &u}
}
