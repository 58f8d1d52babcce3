package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
)

// maxHashBody bounds the plain-text body of signup and login.
const maxHashBody = 1 << 10

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError replies with the status for err and the name of its kind.
// Internal details never reach the client.
func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	msg := common.ErrorInternal.Error()
	switch code {
	case http.StatusBadRequest:
		msg = common.ErrorBadRequest.Error()
	case http.StatusNotFound:
		msg = common.ErrorNotFound.Error()
	case http.StatusUnauthorized:
		msg = common.ErrorUnauthorized.Error()
	}
	writeText(w, code, msg)
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// respond writes err if set, else an empty 200.
func respond(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// readHash returns the trimmed plain-text request body.
func readHash(r *http.Request) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxHashBody))
	if err != nil {
		return "", common.ErrorBadRequest
	}
	return strings.TrimSpace(string(b)), nil
}

// queryID parses a required integer id parameter.
func queryID(r *http.Request, key string) (int64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, common.ErrorBadRequest
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, common.ErrorBadRequest
	}
	return id, nil
}

// queryInt parses an optional non-negative integer, def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, common.ErrorBadRequest
	}
	return n, nil
}

func queryBool(r *http.Request, key string) (bool, error) {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return false, common.ErrorBadRequest
	}
	return b, nil
}

// queryIDs parses several required ids at once.
func queryIDs(r *http.Request, keys ...string) ([]int64, error) {
	out := make([]int64, 0, len(keys))
	for _, k := range keys {
		id, err := queryID(r, k)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
