// Package notifications delivers transactional email through Brevo or
// SendGrid, whichever is configured.
package notifications

import (
	config "github.com/anjiri1684/torah_tutor/configs"
	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/services"
)

// Disabled drops every message. Used when no provider is configured.
type Disabled struct{}

func (Disabled) Send(_, toEmail, subject, _ string) {
	logger.Debug().Str("to", toEmail).Str("subject", subject).Msg("email disabled, not sent")
}

// FromEnv picks a provider from EMAIL_PROVIDER ("brevo" or "sendgrid").
// Without one it prefers whichever API key is set.
func FromEnv() services.Notifier {
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.ConfigOr("EMAIL_SENDER_NAME", "Torah Tutor")
	brevoKey := config.Config("BREVO_API_KEY")
	sendgridKey := config.Config("SENDGRID_API_KEY")

	provider := config.Config("EMAIL_PROVIDER")
	if provider == "" {
		switch {
		case brevoKey != "":
			provider = "brevo"
		case sendgridKey != "":
			provider = "sendgrid"
		}
	}

	switch {
	case senderEmail == "":
	case provider == "brevo" && brevoKey != "":
		logger.Info().Str("provider", provider).Msg("email service initialized")
		return NewBrevoService(brevoKey, senderEmail, senderName)
	case provider == "sendgrid" && sendgridKey != "":
		logger.Info().Str("provider", provider).Msg("email service initialized")
		return NewSendGridService(sendgridKey, senderEmail, senderName)
	}
	logger.Warn().Msg("email service not configured, emails will be dropped")
	return Disabled{}
}
