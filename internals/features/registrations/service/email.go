// file: internals/features/registrations/service/email.go
package service

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer dipisah sebagai interface supaya reconciler bisa dites
// tanpa SMTP sungguhan.
type Mailer interface {
	SendPaymentConfirmation(toEmail, participantName, programTitle, registrationCode string, totalIDR int) error
}

/* =========================================================
   SMTP implementation
========================================================= */

type SMTPMailer struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		smtpHost:     os.Getenv("SMTP_HOST"),
		smtpPort:     os.Getenv("SMTP_PORT"),
		smtpUsername: os.Getenv("SMTP_USERNAME"),
		smtpPassword: os.Getenv("SMTP_PASSWORD"),
		fromEmail:    os.Getenv("SMTP_FROM_EMAIL"),
	}
}

// SendPaymentConfirmation mengirim email konfirmasi pembayaran ke peserta.
func (s *SMTPMailer) SendPaymentConfirmation(toEmail, participantName, programTitle, registrationCode string, totalIDR int) error {
	subject := fmt.Sprintf("Pembayaran Diterima — %s", registrationCode)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<body style="font-family: Arial, sans-serif; line-height: 1.6;">
		<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Halo %s,</h2>
			<p>Pembayaran untuk pendaftaran program <strong>%s</strong> telah kami terima.</p>
			<p>Kode registrasi: <strong>%s</strong><br>
			Total pembayaran: <strong>Rp %d</strong></p>
			<p>Detail jadwal dan informasi kelas akan dikirim menyusul ke email ini.</p>
			<p>Terima kasih!</p>
		</div>
	</body>
	</html>
	`, participantName, programTitle, registrationCode, totalIDR)

	return s.sendEmail(toEmail, subject, body)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, htmlBody string) error {
	if s.smtpHost == "" || s.smtpPort == "" || s.smtpUsername == "" || s.smtpPassword == "" {
		log.Println("⚠️ SMTP belum dikonfigurasi, email tidak terkirim")
		return fmt.Errorf("email service not configured")
	}

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	headers := fmt.Sprintf("From: Legacy Training <%s>\nTo: %s\nSubject: %s\n", s.fromEmail, toEmail, subject)
	message := []byte(headers + mime + htmlBody)

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	return smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, message)
}
