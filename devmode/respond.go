package devmode

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Error codes carried in error.code.
const (
	codeInvalidToken          = "INVALID_TOKEN"
	codeAuthorizationRequired = "AUTHORIZATION_REQUIRED"
	codeLoginFailed           = "LOGIN_FAILED"
	codeNotFound              = "MODEL_NOT_FOUND"
	codeValidation            = "VALIDATION_ERROR"
	codeBadRequest            = "BAD_REQUEST"
)

// errorBody is the backend's error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	Code       string `json:"code"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	name := "Error"
	if code == codeValidation {
		name = "ValidationError"
	}
	writeJSON(w, statusCode, errorBody{Error: errorDetail{
		StatusCode: statusCode,
		Name:       name,
		Message:    message,
		Code:       code,
	}})
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, codeNotFound, message)
}

func writeValidation(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, codeValidation, message)
}

// decodeBody reads a JSON body into v; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
