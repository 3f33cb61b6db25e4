package handler

import (
	"github.com/gin-gonic/gin"
)

// AuthHandler serves the login routes as fixed aliases of SubjectService
// methods, so plain HTTP clients get the same behavior as RPC callers.
type AuthHandler struct {
	rpc *RPCHandler
}

func NewAuthHandler(rpc *RPCHandler) *AuthHandler {
	return &AuthHandler{rpc: rpc}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	h.rpc.call(c, "SubjectService", "login")
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.rpc.call(c, "SubjectService", "logout")
}

// Session handles GET /api/v1/auth/session and returns the caller.
func (h *AuthHandler) Session(c *gin.Context) {
	h.rpc.call(c, "SubjectService", "getSessionSubject")
}
