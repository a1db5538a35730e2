package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/memberhub/memberhub/internal/models"
	"github.com/memberhub/memberhub/internal/service"
)

type ErrorResponse struct {
	Error         ErrorDetail           `json:"error"`
	Fields        []service.FieldError  `json:"fields,omitempty"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
