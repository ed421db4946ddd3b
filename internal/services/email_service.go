package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"
)

const sendGridMailSendURL = "https://api.sendgrid.com/v3/mail/send"

// EmailService is the outbound email collaborator. Without an API key it
// degrades to logging, which is what development runs use.
type EmailService interface {
	SendVerificationCode(ctx context.Context, recipient, code string) error
	SendPasswordReset(ctx context.Context, recipient, userName, resetURL string) error
}

type sendGridEmailService struct {
	apiKey     string
	from       string
	httpClient *http.Client

	verifyTmpl *template.Template
	resetTmpl  *template.Template
}

var verificationEmailTmpl = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #007bff; text-align: center;">Rentzy</h1>
  <div style="background: #f8f9fa; padding: 30px; border-radius: 10px; text-align: center;">
    <h2>Email Verification</h2>
    <p>Please use the following verification code to verify your email address:</p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <span style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">{{.Code}}</span>
    </div>
    <p style="font-size: 14px;">This code will expire in 10 minutes.</p>
  </div>
  <p style="color: #999; font-size: 12px; text-align: center;">If you didn't request this verification, please ignore this email.</p>
</div>`))

var resetEmailTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #007bff; text-align: center;">Rentzy</h1>
  <div style="background: #f8f9fa; padding: 30px; border-radius: 10px;">
    <h2>Password Reset Request</h2>
    <p>Hello <strong>{{.Name}}</strong>,</p>
    <p>You requested a password reset for your Rentzy account. Click the button below to reset your password:</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.ResetURL}}" style="background: #007bff; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; display: inline-block;">Reset Password</a>
    </div>
    <p><strong>This link will expire in 1 hour.</strong></p>
    <p>If you didn't request this password reset, please ignore this email and your password will remain unchanged.</p>
  </div>
</div>`))

func NewSendGridEmailService(apiKey, from string) EmailService {
	return &sendGridEmailService{
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		verifyTmpl: verificationEmailTmpl,
		resetTmpl:  resetEmailTmpl,
	}
}

func (s *sendGridEmailService) SendVerificationCode(ctx context.Context, recipient, code string) error {
	var body bytes.Buffer
	if err := s.verifyTmpl.Execute(&body, map[string]string{"Code": code}); err != nil {
		return err
	}
	return s.send(ctx, recipient, "Rentzy Email Verification Code", body.String())
}

func (s *sendGridEmailService) SendPasswordReset(ctx context.Context, recipient, userName, resetURL string) error {
	var body bytes.Buffer
	if err := s.resetTmpl.Execute(&body, map[string]string{"Name": userName, "ResetURL": resetURL}); err != nil {
		return err
	}
	return s.send(ctx, recipient, "Password Reset Request - Rentzy", body.String())
}

// send posts one message to the SendGrid v3 mail-send API.
func (s *sendGridEmailService) send(ctx context.Context, recipient, subject, htmlBody string) error {
	if s.apiKey == "" {
		log.Printf("[EMAIL] To=%s, Subject=%s (no SENDGRID_API_KEY, not sent)", recipient, subject)
		return nil
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": recipient}}},
		},
		"from":    map[string]string{"email": s.from},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/html", "value": htmlBody},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridMailSendURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("email dispatch failed with status %d", resp.StatusCode)
	}
	return nil
}
