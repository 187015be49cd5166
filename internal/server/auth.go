package server

import (
	"errors"
	"net/http"
	"strings"
)

var errNoSession = errors.New("no valid session")

// sessionFromRequest resolves the Bearer token to an active round session.
func sessionFromRequest(r *http.Request, sessions *Sessions) (string, *gameSession, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return "", nil, errNoSession
	}
	sess, ok := sessions.Get(token)
	if !ok {
		return "", nil, errNoSession
	}
	return token, sess, nil
}
