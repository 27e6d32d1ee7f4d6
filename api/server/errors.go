package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"studentkeep/core/ledger"
)

// errorResponse is the wire shape for every failed call.
type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Op     string `json:"operation,omitempty"`
	Key    string `json:"assetId,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// writeError maps the ledger's closed error taxonomy onto HTTP status
// codes. Unknown errors come back as 500 without internal detail.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: "internal error"}

	var le *ledger.Error
	if errors.As(err, &le) {
		switch le.Kind {
		case ledger.KindAlreadyExists, ledger.KindInvalidState:
			status = http.StatusConflict
		case ledger.KindNotFound:
			status = http.StatusNotFound
		case ledger.KindUnauthorized:
			status = http.StatusForbidden
		case ledger.KindStoreUnavailable:
			status = http.StatusServiceUnavailable
		}
		resp = errorResponse{
			Error:  le.Error(),
			Kind:   string(le.Kind),
			Op:     le.Op,
			Key:    le.Key,
			Reason: le.Reason,
		}
	} else if errors.Is(err, ledger.ErrUnknownOperation) {
		status = http.StatusNotFound
		resp = errorResponse{Error: err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
