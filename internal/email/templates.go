package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectLeadNotification = "Nuevo lead de la landing"

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func renderLeadNotification(data LeadNotificationData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "lead_notification.html", data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}
