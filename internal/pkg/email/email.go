package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// Service defines the interface for email operations
type Service interface {
	SendRegistrationApprovedEmail(toEmail, toName, courseTitle string) error
	SendPaymentReceiptEmail(toEmail, toName, courseTitle, reference string, amountKobo int64) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// serviceImpl implements Service over plain SMTP
type serviceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewService creates a new email Service
func NewService(config SMTPConfig, logger zerolog.Logger) Service {
	return &serviceImpl{
		config: config,
		logger: logger,
	}
}

// SendRegistrationApprovedEmail notifies a student their course registration was approved
func (s *serviceImpl) SendRegistrationApprovedEmail(toEmail, toName, courseTitle string) error {
	// Without SMTP credentials, log instead of sending (development mode)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("courseTitle", courseTitle).
			Msg("SMTP credentials not configured - registration email not sent")
		return nil
	}

	subject := fmt.Sprintf("Registration Approved - %s", courseTitle)
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">You're in!</h2>
				<p>Hello %s,</p>
				<p>Your registration for <strong>%s</strong> has been approved. You can now access course materials, assignments and live classes from your dashboard.</p>
				<p>Best regards,<br>The LearnHub Team</p>
			</div>
		</body>
		</html>
	`, toName, courseTitle)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPaymentReceiptEmail sends a receipt after a successful Paystack payment
func (s *serviceImpl) SendPaymentReceiptEmail(toEmail, toName, courseTitle, reference string, amountKobo int64) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("reference", reference).
			Msg("SMTP credentials not configured - receipt email not sent")
		return nil
	}

	subject := fmt.Sprintf("Payment Receipt - %s", courseTitle)
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Payment Received</h2>
				<p>Hello %s,</p>
				<p>We received your payment of <strong>NGN %.2f</strong> for <strong>%s</strong>.</p>
				<p>Transaction reference: <strong>%s</strong></p>
				<p>Best regards,<br>The LearnHub Team</p>
			</div>
		</body>
		</html>
	`, toName, float64(amountKobo)/100, courseTitle, reference)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// sendHTMLEmail sends an HTML email over plain SMTP or SMTP+TLS
func (s *serviceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
	}

	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create SMTP client")
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
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}
