package notifications

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendGridService struct {
	key  string
	from *sgmail.Email
}

func NewSendGridService(key, senderEmail, senderName string) *SendGridService {
	return &SendGridService{key: key, from: sgmail.NewEmail(senderName, senderEmail)}
}

func (s *SendGridService) message(toName, toEmail, subject, htmlContent string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail(toName, toEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlContent))
	return m
}

func (s *SendGridService) deliver(_ context.Context, toName, toEmail, subject, htmlContent string) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.message(toName, toEmail, subject, htmlContent))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (s *SendGridService) Send(toName, toEmail, subject, htmlContent string) {
	send(s.deliver, toName, toEmail, subject, htmlContent)
}
