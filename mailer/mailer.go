// Package mailer sends transactional email. Every send here is best-effort:
// failures are logged and never surfaced to the request that triggered them.
package mailer

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/smartfir/fir-filing-api/models"
	templates "github.com/smartfir/fir-filing-api/templates/html"
)

// SendReportAcknowledgement emails the citizen a filing confirmation. Called
// after the report record is committed; a mail failure never unwinds a filing.
func SendReportAcknowledgement(toEmail string, report models.Report) {
	if toEmail == "" {
		return
	}
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		zap.S().Debug("SENDGRID_API_KEY not set, skipping acknowledgement email")
		return
	}

	subject := "Your FIR has been filed"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour report (reference %s) has been filed with %s and is now Pending review.\n\nCategory: %s\nLocation: %s\n\nYou can track its status from your dashboard at any time.",
		report.ReporterName,
		report.ID.Hex(),
		report.PoliceStation,
		report.Category,
		report.Location,
	)

	from := mail.NewEmail("Smart FIR Filing System", "no-reply@smartfir.example.com")
	to := mail.NewEmail(report.ReporterName, toEmail)
	msg := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))

	client := sendgrid.NewSendClient(apiKey)
	if _, err := client.Send(msg); err != nil {
		zap.S().With(err).Warnw("failed to send acknowledgement email", "reportId", report.ID.Hex())
	}
}
