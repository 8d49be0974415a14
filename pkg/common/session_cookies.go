package common

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/matst80/slask-dashboard/pkg/types"
)

const SessionCookie = "sid"

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionId,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   30 * 24 * 3600,
		Path:     "/",
	})
}

// HandleSessionCookie returns the caller's session id, issuing a new one
// when the cookie is missing or not a valid id.
func HandleSessionCookie(tracking types.Tracking, w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	sessionId := uuid.New().String()
	if tracking != nil {
		go tracking.TrackSession(sessionId, r)
	}
	setSessionCookie(w, r, sessionId)
	return sessionId
}
