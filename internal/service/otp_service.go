package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/memberhub/memberhub/internal/metrics"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/sirupsen/logrus"
)

// OTPGateway is the remote service that delivers and checks one-time codes.
type OTPGateway interface {
	SendEmailOTP(ctx context.Context, recipient string) error
	SendPhoneOTP(ctx context.Context, recipient string) error
	ValidateOTP(ctx context.Context, recipient, otp string) (bool, error)
}

type OTPService struct {
	gateway OTPGateway
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

func NewOTPService(gateway OTPGateway, m *metrics.Metrics, logger *logrus.Logger) *OTPService {
	return &OTPService{
		gateway: gateway,
		metrics: m,
		logger:  logger,
	}
}

func (s *OTPService) Dispatch(ctx context.Context, channel models.Channel, recipient string) error {
	recipient = strings.TrimSpace(recipient)

	var err error
	switch channel {
	case models.ChannelEmail:
		err = s.gateway.SendEmailOTP(ctx, recipient)
	case models.ChannelPhone:
		err = s.gateway.SendPhoneOTP(ctx, recipient)
	default:
		return models.ErrUnknownChannel
	}

	if err != nil {
		s.metrics.ObserveDispatch(string(channel), "error")
		s.logger.WithError(err).WithField("channel", channel).Error("Failed to dispatch OTP")
		return fmt.Errorf("failed to dispatch %s OTP: %w", channel, err)
	}

	s.metrics.ObserveDispatch(string(channel), "sent")
	s.logger.WithField("channel", channel).Info("OTP dispatched")
	return nil
}

func (s *OTPService) Verify(ctx context.Context, channel models.Channel, recipient, otp string) (bool, error) {
	valid, err := s.gateway.ValidateOTP(ctx, strings.TrimSpace(recipient), otp)
	if err != nil {
		s.metrics.ObserveValidation(string(channel), "error")
		s.logger.WithError(err).WithField("channel", channel).Warn("OTP validation call failed")
		return false, fmt.Errorf("failed to validate %s OTP: %w", channel, err)
	}

	result := "invalid"
	if valid {
		result = "valid"
	}
	s.metrics.ObserveValidation(string(channel), result)
	s.logger.WithFields(logrus.Fields{
		"channel": channel,
		"valid":   valid,
	}).Debug("OTP validated")

	return valid, nil
}
