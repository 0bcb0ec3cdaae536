package server

import (
	"encoding/json"
	"net/http"
)

// Detail strings of the auth API, matched verbatim by clients.
const (
	detailBadCredentials  = "Incorrect username or password"
	detailCouldNotVerify  = "Could not validate credentials"
	detailRoleNotAllowed  = "Operation not permitted for this user role"
	detailEmailRegistered = "Email already registered"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail answers with the {"detail": "..."} body the clients parse.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeUnauthorized is writeDetail for 401s, with the challenge header.
func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
