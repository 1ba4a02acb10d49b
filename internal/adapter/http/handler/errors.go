package handler

import (
	"errors"
	"net/http"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// If writeJSON fails, fall back to an empty 500 response.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity status.
// The request was well-formed but its content cannot be accepted; repeating it
// unchanged will fail the same way.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 BadRequest status
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

// internalErrorResponse returns 500 InternalServerError status
func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}

// domainErrorResponse writes err with the status GetCode picks. Rejections keep
// their user-facing message; persistence failures tell the caller to retry.
func domainErrorResponse(w http.ResponseWriter, err error) {
	code := GetCode(err)

	var rej *types.RejectionError
	switch {
	case errors.As(err, &rej):
		errorResponse(w, code, envelope{"reason": rej.Code(), "message": rej.Error()})
	case code == http.StatusConflict:
		errorResponse(w, code, "the trip log changed while saving, please resubmit")
	case errors.Is(err, types.ErrPersistenceFailure):
		errorResponse(w, code, "failed to save the reading, please resubmit")
	case code == http.StatusInternalServerError:
		errorResponse(w, code, "the server encountered a problem and could not process your request")
	default:
		errorResponse(w, code, err.Error())
	}
}
