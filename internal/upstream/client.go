package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/memberhub/memberhub/internal/config"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	pathSendEmailOTP = "/otp/send/email"
	pathSendPhoneOTP = "/otp/send/phone"
	pathValidateOTP  = "/otp/validate"
	pathMemberSignup = "/member/signup"
	pathClubPlans    = "/club/plans"

	maxErrorBody = 512
)

// Client talks to the member API that owns OTP delivery, member records and plans.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialProvider
	logger      *logrus.Logger
}

func NewClient(cfg *config.UpstreamConfig, credentials CredentialProvider, logger *logrus.Logger) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, credentials, logger)
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client, credentials CredentialProvider, logger *logrus.Logger) *Client {
	if credentials == nil {
		credentials = StaticToken("")
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		credentials: credentials,
		logger:      logger,
	}
}

func (c *Client) SendEmailOTP(ctx context.Context, recipient string) error {
	return c.do(ctx, http.MethodPost, pathSendEmailOTP, models.OTPDispatchRequest{Recipient: recipient}, nil, false)
}

func (c *Client) SendPhoneOTP(ctx context.Context, recipient string) error {
	return c.do(ctx, http.MethodPost, pathSendPhoneOTP, models.OTPDispatchRequest{Recipient: recipient}, nil, false)
}

// ValidateOTP accepts either a bare JSON boolean or {"valid": bool} as the answer.
func (c *Client) ValidateOTP(ctx context.Context, recipient, otp string) (bool, error) {
	var raw json.RawMessage
	req := models.OTPValidationRequest{Recipient: recipient, OTP: otp}
	if err := c.do(ctx, http.MethodPost, pathValidateOTP, req, &raw, false); err != nil {
		return false, err
	}
	return decodeValidity(raw)
}

func (c *Client) SignupMember(ctx context.Context, payload models.SignupPayload) error {
	return c.do(ctx, http.MethodPost, pathMemberSignup, payload, nil, false)
}

// ListClubPlans fails with ErrNoToken before any network activity when no token is available.
func (c *Client) ListClubPlans(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, pathClubPlans, nil, &raw, true); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out *json.RawMessage, requireToken bool) error {
	token, err := c.credentials.Token(ctx)
	if err != nil && (requireToken || !errors.Is(err, ErrNoToken)) {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "*/*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Upstream request failed")
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}
	*out = data
	return nil
}

func decodeValidity(raw json.RawMessage) (bool, error) {
	var valid bool
	if err := json.Unmarshal(raw, &valid); err == nil {
		return valid, nil
	}
	var wrapped models.OTPValidationResponse
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return false, fmt.Errorf("failed to decode OTP validation response: %w", err)
	}
	return wrapped.Valid, nil
}
