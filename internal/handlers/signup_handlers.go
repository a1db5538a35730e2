package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/memberhub/memberhub/internal/service"
	"github.com/sirupsen/logrus"
)

// SignupFlow is the session-backed registration workflow.
type SignupFlow interface {
	Start(ctx context.Context, club models.ClubContext) (*models.SignupSession, error)
	Get(ctx context.Context, id string) (*models.SignupSession, error)
	Controls(session *models.SignupSession) service.Controls
	UpdateField(ctx context.Context, id, field, value string) (*models.SignupSession, service.Outcome, error)
	DispatchOTP(ctx context.Context, id string, channel models.Channel) (*models.SignupSession, service.Outcome, error)
	Submit(ctx context.Context, id string) (*models.SignupSession, service.Outcome, error)
}

type SignupHandlers struct {
	signup SignupFlow
	logger *logrus.Logger
}

func NewSignupHandlers(signup SignupFlow, logger *logrus.Logger) *SignupHandlers {
	return &SignupHandlers{
		signup: signup,
		logger: logger,
	}
}

type StartSessionRequest struct {
	ClubID       models.ClubID `json:"clubId"`
	ClubName     string        `json:"clubName"`
	MembershipID models.ClubID `json:"membershipId"`
}

type UpdateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *SignupHandlers) StartSession(w http.ResponseWriter, r *http.Request) {
	// an empty body starts a session without club context
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session, err := h.signup.Start(r.Context(), models.ClubContext{
		ClubID:       req.ClubID,
		ClubName:     req.ClubName,
		MembershipID: req.MembershipID,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to start signup session")
		respondWithError(w, http.StatusInternalServerError, "SESSION_CREATION_FAILED", "Failed to start signup")
		return
	}

	respondWithJSON(w, http.StatusCreated, SessionResponse{
		Session:       newSessionView(session, h.signup.Controls(session)),
		Notifications: []models.Notification{},
	})
}

func (h *SignupHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.signup.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithFlowError(w, err, service.Outcome{})
		return
	}

	respondWithJSON(w, http.StatusOK, newSessionView(session, h.signup.Controls(session)))
}

func (h *SignupHandlers) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Field == "" {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Field name is required")
		return
	}

	session, out, err := h.signup.UpdateField(r.Context(), mux.Vars(r)["id"], req.Field, req.Value)
	if err != nil {
		h.respondWithFlowError(w, err, out)
		return
	}

	h.respondWithSession(w, session, out)
}

func (h *SignupHandlers) DispatchOTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	channel, err := models.ParseChannel(vars["channel"])
	if err != nil {
		h.respondWithFlowError(w, err, service.Outcome{})
		return
	}

	session, out, err := h.signup.DispatchOTP(r.Context(), vars["id"], channel)
	if err != nil {
		h.respondWithFlowError(w, err, out)
		return
	}

	h.respondWithSession(w, session, out)
}

func (h *SignupHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	_, out, err := h.signup.Submit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithFlowError(w, err, out)
		return
	}

	// the session is gone once the member exists
	respondWithJSON(w, http.StatusOK, SessionResponse{
		Notifications: notificationsOf(out),
		Redirect:      out.Redirect,
	})
}

func (h *SignupHandlers) respondWithSession(w http.ResponseWriter, session *models.SignupSession, out service.Outcome) {
	respondWithJSON(w, http.StatusOK, SessionResponse{
		Session:       newSessionView(session, h.signup.Controls(session)),
		Notifications: notificationsOf(out),
		Redirect:      out.Redirect,
	})
}

func (h *SignupHandlers) respondWithFlowError(w http.ResponseWriter, err error, out service.Outcome) {
	resp := ErrorResponse{Notifications: out.Notifications}
	status := http.StatusInternalServerError

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusUnprocessableEntity
		resp.Error = ErrorDetail{Code: "VALIDATION_FAILED", Message: "The form has invalid fields"}
		resp.Fields = validationErr.Fields
	case errors.Is(err, models.ErrSessionNotFound):
		status = http.StatusNotFound
		resp.Error = ErrorDetail{Code: "SESSION_NOT_FOUND", Message: "Signup session not found or expired"}
	case errors.Is(err, models.ErrUnknownField):
		status = http.StatusBadRequest
		resp.Error = ErrorDetail{Code: "UNKNOWN_FIELD", Message: err.Error()}
	case errors.Is(err, models.ErrUnknownChannel):
		status = http.StatusBadRequest
		resp.Error = ErrorDetail{Code: "UNKNOWN_CHANNEL", Message: "Channel must be email or phone"}
	case errors.Is(err, models.ErrOTPAlreadySent):
		status = http.StatusConflict
		resp.Error = ErrorDetail{Code: "OTP_ALREADY_SENT", Message: "OTP already sent on this channel"}
	case errors.Is(err, models.ErrContactMissing):
		status = http.StatusUnprocessableEntity
		resp.Error = ErrorDetail{Code: "CONTACT_MISSING", Message: "Enter a contact value before requesting an OTP"}
	case errors.Is(err, models.ErrDispatchFailed):
		status = http.StatusBadGateway
		resp.Error = ErrorDetail{Code: "OTP_DISPATCH_FAILED", Message: "Failed to send OTP"}
	case errors.Is(err, models.ErrSubmissionFailed):
		status = http.StatusBadGateway
		resp.Error = ErrorDetail{Code: "MEMBER_CREATION_FAILED", Message: "Error while creating member"}
	default:
		h.logger.WithError(err).Error("Signup operation failed")
		resp.Error = ErrorDetail{Code: "INTERNAL_ERROR", Message: "Internal server error"}
	}

	respondWithJSON(w, status, resp)
}
