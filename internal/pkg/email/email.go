package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendStudentIDEmail(toEmail, toName, studentID string) error
	SendDigestEmail(toEmail string, digest Digest) error
}

// Digest is the content of the daily admin summary
type Digest struct {
	AdminName          string
	PendingLeave       int
	PendingMaintenance int
	TotalStudents      int
	AvailableRooms     int
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Configured reports whether enough settings exist to deliver mail
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// EmailServiceImpl implements EmailService over net/smtp
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	if config.FromName == "" {
		config.FromName = "HostelHub"
	}
	return &EmailServiceImpl{
		config: config,
		logger: logger.With().Str("component", "email").Logger(),
	}
}

// StudentIDBody renders the registration email
func StudentIDBody(toName, studentID string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to the hostel!</h2>
				<p>Hello %s,</p>
				<p>Your registration was received. Your student ID is:</p>
				<p style="font-size: 20px;"><strong>%s</strong></p>
				<p>Use it together with your email address when contacting the hostel office.
				Your account becomes active once an administrator approves it.</p>
				<p>Best regards,<br>Hostel Administration</p>
			</div>
		</body>
		</html>
	`, toName, studentID)
}

// DigestBody renders the daily admin summary
func DigestBody(d Digest) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Daily hostel digest</h2>
				<p>Hello %s,</p>
				<ul>
					<li>Pending leave requests: <strong>%d</strong></li>
					<li>Pending maintenance requests: <strong>%d</strong></li>
					<li>Registered students: %d</li>
					<li>Rooms available: %d</li>
				</ul>
			</div>
		</body>
		</html>
	`, d.AdminName, d.PendingLeave, d.PendingMaintenance, d.TotalStudents, d.AvailableRooms)
}

// SendStudentIDEmail tells a newly registered student their ID
func (s *EmailServiceImpl) SendStudentIDEmail(toEmail, toName, studentID string) error {
	if !s.config.Configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("studentID", studentID).
			Msg("SMTP not configured - student ID email not sent")
		return nil
	}
	return s.sendHTMLEmail(toEmail, "Your Student ID", StudentIDBody(toName, studentID))
}

// SendDigestEmail sends the daily pending-work summary to one admin
func (s *EmailServiceImpl) SendDigestEmail(toEmail string, digest Digest) error {
	if !s.config.Configured() {
		s.logger.Info().
			Str("toEmail", toEmail).
			Int("pendingLeave", digest.PendingLeave).
			Int("pendingMaintenance", digest.PendingMaintenance).
			Msg("SMTP not configured - digest logged instead of sent")
		return nil
	}
	subject := fmt.Sprintf("Hostel digest: %d leave, %d maintenance pending", digest.PendingLeave, digest.PendingMaintenance)
	return s.sendHTMLEmail(toEmail, subject, DigestBody(digest))
}

func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
