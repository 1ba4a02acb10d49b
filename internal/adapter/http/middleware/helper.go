package middleware

import (
	"encoding/json"
	"net/http"

	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

// errorResponse writes {"error": message} plus the request id when one is set.
func errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	body := map[string]string{"error": message}
	if id := wrap.GetRequestID(r.Context()); id != "" {
		body["request_id"] = id
	}

	js, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(js, '\n'))
}
