// Package auth implements the shared-secret check endpoint. This is the
// only authentication the service has: a single static value compared per
// request, with no sessions or tokens.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/lunamart/catalog-service/httpx"
)

type AuthHandler struct {
	secret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{secret: secret}
}

// HandleAuth checks the submitted password against the configured shared
// secret.
func (h *AuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.BadRequest(w, "invalid JSON body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(input.Password), []byte(h.secret)) != 1 {
		httpx.JSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "incorrect password",
		})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
