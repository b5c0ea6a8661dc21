package main

import (
	"fmt"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iabhijais/portfolio/internal/config"
	"go.uber.org/zap"
)

// handleContact handles the hire-me form submitted with HTMX and answers with
// a success or error fragment.
func (a *app) handleContact(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("fullName"))
	email := strings.TrimSpace(c.PostForm("email"))
	message := strings.TrimSpace(c.PostForm("message"))

	if name == "" || email == "" || message == "" {
		c.HTML(http.StatusBadRequest, "contact-error.html", gin.H{
			"error": "Please fill in your name, email and a message.",
		})
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		c.HTML(http.StatusBadRequest, "contact-error.html", gin.H{
			"error": "That email address doesn't look right.",
		})
		return
	}

	client := a.admin.hashIP(c.ClientIP())
	if !a.contact.allow(client) {
		c.HTML(http.StatusTooManyRequests, "contact-error.html", gin.H{
			"error": "You've sent a few messages already. Please try again later.",
		})
		return
	}

	if err := a.sendMail(a.cfg.SMTP, name, email, message); err != nil {
		a.logger.Error("sending contact email failed", zap.String("client", client), zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	a.logger.Info("contact email sent", zap.String("client", client))
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}

// sendContactEmail delivers a contact form submission over SMTP.
func sendContactEmail(cfg config.SMTPConfig, name, email, message string) error {
	if !cfg.Configured() {
		return fmt.Errorf("SMTP credentials not configured")
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

	msg := []byte("To: " + cfg.To + "\r\n" +
		"Subject: " + headerSafe(subject) + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(email) + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	if err := smtp.SendMail(cfg.Host+":"+cfg.Port, auth, cfg.User, []string{cfg.To}, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", cfg.Host, err)
	}
	return nil
}

// headerSafe strips line breaks so form input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
