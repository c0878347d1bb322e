package utils

import (
	"encoding/json"
	"net/http"

	"github.com/codexhub/img-uploader/internal/errors"
	"github.com/codexhub/img-uploader/internal/logger"
)

// MessageResponse is the body shape for every non-payload response,
// including all error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON serializes v with the given status code.
// Encoding failures are logged and turned into a plain 500.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("encoding response failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

// WriteMessage writes a {"message": ...} body with the given status code.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, MessageResponse{Message: message})
}

// WriteErrorAndStatusCode converts err into a JSON error response.
// ErrorWithStatusCode carries its own status and message; anything else
// is an internal error with a generic body, detail logged not returned.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		WriteMessage(w, e.StatusCode, e.Message)
		return
	}
	// default error is 500
	logger.Log.Error("internal error", "error", err)
	WriteMessage(w, http.StatusInternalServerError, "Internal server error")
}
