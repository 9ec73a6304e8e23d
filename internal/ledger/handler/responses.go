package handler

import (
	"encoding/json"
	"net/http"

	dErrors "custodia/pkg/domain-errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// statusFor maps domain error codes onto HTTP statuses.
func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeUnauthorized:
		return http.StatusForbidden
	case dErrors.CodeSystemStopped, dErrors.CodeAlreadyRegistered, dErrors.CodeAlreadyBound:
		return http.StatusConflict
	case dErrors.CodeInvalidAddress, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeInsufficientBalance, dErrors.CodeArithmeticOverflow:
		return http.StatusUnprocessableEntity
	case dErrors.CodeExternalCallFailed:
		return http.StatusBadGateway
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.Message = err.Error()
	}
	writeJSON(w, statusFor(code), resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
