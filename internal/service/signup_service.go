package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/sirupsen/logrus"
)

// SessionRepository stores open signup sessions. Get returns
// models.ErrSessionNotFound for missing or expired sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *models.SignupSession) error
	Get(ctx context.Context, id string) (*models.SignupSession, error)
	Delete(ctx context.Context, id string) error
}

// SignupService runs controller operations against stored sessions. Operations on
// the same session are serialized within the process.
type SignupService struct {
	sessions   SessionRepository
	controller *SignupController
	ttl        time.Duration
	locks      *keyedMutex
	logger     *logrus.Logger
}

func NewSignupService(sessions SessionRepository, controller *SignupController, ttl time.Duration, logger *logrus.Logger) *SignupService {
	return &SignupService{
		sessions:   sessions,
		controller: controller,
		ttl:        ttl,
		locks:      newKeyedMutex(),
		logger:     logger,
	}
}

func (s *SignupService) Start(ctx context.Context, club models.ClubContext) (*models.SignupSession, error) {
	session := models.NewSignupSession(uuid.New().String(), club, s.ttl)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create signup session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"club_id":    club.ClubID.String(),
	}).Info("Signup session started")
	return session, nil
}

func (s *SignupService) Get(ctx context.Context, id string) (*models.SignupSession, error) {
	return s.sessions.Get(ctx, id)
}

func (s *SignupService) Controls(session *models.SignupSession) Controls {
	return s.controller.Controls(session)
}

func (s *SignupService) UpdateField(ctx context.Context, id, field, value string) (*models.SignupSession, Outcome, error) {
	return s.mutate(ctx, id, func(session *models.SignupSession) (Outcome, error) {
		return s.controller.UpdateField(ctx, session, field, value)
	})
}

func (s *SignupService) DispatchOTP(ctx context.Context, id string, channel models.Channel) (*models.SignupSession, Outcome, error) {
	return s.mutate(ctx, id, func(session *models.SignupSession) (Outcome, error) {
		return s.controller.DispatchOTP(ctx, session, channel)
	})
}

// Submit discards the session once the member has been created.
func (s *SignupService) Submit(ctx context.Context, id string) (*models.SignupSession, Outcome, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, Outcome{}, err
	}

	out, err := s.controller.Submit(ctx, session)
	if err != nil {
		return session, out, err
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.WithError(err).WithField("session_id", id).Warn("Failed to discard submitted session")
	}
	return session, out, nil
}

func (s *SignupService) mutate(
	ctx context.Context,
	id string,
	op func(session *models.SignupSession) (Outcome, error),
) (*models.SignupSession, Outcome, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, Outcome{}, err
	}

	out, opErr := op(session)
	if errors.Is(opErr, models.ErrUnknownField) {
		return session, out, opErr
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return session, out, fmt.Errorf("failed to save signup session: %w", err)
	}
	return session, out, opErr
}
