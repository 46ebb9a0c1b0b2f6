package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	sessionHeader = "X-Billing-Session"
	sessionCookie = "pos_session"
	flashCookie   = "pos_flash"
)

var validSessionKey = regexp.MustCompile(`^[a-zA-Z0-9:\-_.]{1,128}$`)

// workflowKey names the billing workflow of this browser or API client.
// The header wins over the cookie; a client with neither gets a fresh key
// set as a cookie so the checkout round trip lands on the same workflow.
func workflowKey(w http.ResponseWriter, r *http.Request) string {
	if k := r.Header.Get(sessionHeader); validSessionKey.MatchString(k) {
		return k
	}
	if c, err := r.Cookie(sessionCookie); err == nil && validSessionKey.MatchString(c.Value) {
		return c.Value
	}
	k := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    k,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return k
}

// flash is the one-shot feedback shown on the next page after a redirect.
type flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func setFlash(w http.ResponseWriter, f flash) {
	raw, _ := json.Marshal(f)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// popFlash reads and clears the flash cookie.
func popFlash(w http.ResponseWriter, r *http.Request) *flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f flash
	if json.Unmarshal(raw, &f) != nil {
		return nil
	}
	return &f
}
