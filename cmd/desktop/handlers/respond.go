// Package handlers provides the localhost REST API the desktop UI talks to.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.WithComponent("api").WithError(err).Error("failed to encode response")
	}
}

// writeError maps app error codes to HTTP statuses. Unknown errors become a
// 500 with a generic body; the detail goes to the log only.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrValidation, apperrors.ErrBadTable:
		status = http.StatusBadRequest
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrDuplicate, apperrors.ErrConstraint, apperrors.ErrSyncInProgress:
		status = http.StatusConflict
	case apperrors.ErrAuthFailed, apperrors.ErrUserInactive:
		status = http.StatusUnauthorized
	case apperrors.ErrRemote, apperrors.ErrSyncDisconnected:
		status = http.StatusBadGateway
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.WithComponent("api").WithError(err).Error("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, map[string]interface{}{
		"error": msg,
		"code":  string(code),
	})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrValidation, "invalid request body", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.New(apperrors.ErrValidation, "invalid id")
	}
	return id, nil
}
