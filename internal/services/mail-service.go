package services

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/abdelwahab/campuscard-api/internal/dto"
)

const verifyEmailTemplate = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif;">
    <h2>Verify your email address</h2>
    <p>An administrator has requested verification of your CampusCard account email.</p>
    <p><a href="{{.Link}}">Click here to verify your email</a></p>
    <p>This link expires at {{.ExpiresAt}}.</p>
    <p>If you did not register a CampusCard account, ignore this message.</p>
  </body>
</html>`

// MailService consumes verification events and delivers the mail over
// SMTP. It implements interfaces.ConsumerHandler.
type MailService struct {
	smtpHost      string
	smtpPort      string
	smtpUser      string
	smtpPass      string
	mailFrom      string
	mailFromName  string
	verifyBaseURL string
	tmpl          *template.Template
	log           *slog.Logger
}

func NewMailService(
	smtpHost string,
	smtpPort string,
	smtpUser string,
	smtpPass string,
	mailFrom string,
	mailFromName string,
	verifyBaseURL string,
	log *slog.Logger,
) *MailService {
	return &MailService{
		smtpHost:      smtpHost,
		smtpPort:      smtpPort,
		smtpUser:      smtpUser,
		smtpPass:      smtpPass,
		mailFrom:      mailFrom,
		mailFromName:  mailFromName,
		verifyBaseURL: verifyBaseURL,
		tmpl:          template.Must(template.New("verify-email").Parse(verifyEmailTemplate)),
		log:           log,
	}
}

func (s *MailService) HandleMessage(message string) error {
	var event dto.VerifyEmailEvent
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		return fmt.Errorf("decode mail event: %w", err)
	}
	if event.Email == "" || event.Token == "" {
		return fmt.Errorf("mail event missing email or token")
	}
	return s.SendVerifyEmail(event)
}

func (s *MailService) SendVerifyEmail(event dto.VerifyEmailEvent) error {
	link := fmt.Sprintf("%s/verify?token=%s&userId=%d",
		strings.TrimRight(s.verifyBaseURL, "/"),
		url.QueryEscape(event.Token),
		event.UserID,
	)

	var body bytes.Buffer
	err := s.tmpl.Execute(&body, map[string]string{
		"Link":      link,
		"ExpiresAt": event.ExpiresAt,
	})
	if err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", event.Email),
		"Subject: Verify your CampusCard email",
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body.String(),
	}, "\r\n")

	s.log.Info("sending verification email", "to", event.Email, "user_id", event.UserID)

	if err := s.sendSMTPWithTimeout(event.Email, []byte(msg)); err != nil {
		return err
	}

	s.log.Info("verification email sent", "to", event.Email)
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	addr := net.JoinHostPort(s.smtpHost, s.smtpPort)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// A deadline on the raw connection keeps a wedged server from
	// stalling the worker loop.
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.smtpHost}); err != nil {
			return err
		}
	}

	if s.smtpUser != "" {
		auth := smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
