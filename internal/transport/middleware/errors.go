package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/asset-inventory/internal"
)

// writeAppError renders err in the same envelope the handlers use.
func writeAppError(w http.ResponseWriter, err *internal.AppError) {
	status, body := err.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
