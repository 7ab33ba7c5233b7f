package templates

import (
	"bytes"
	"html/template"
	"log"
)

// LeadNotificationProps carries the fields rendered into the new-lead email.
type LeadNotificationProps struct {
	Name           string
	Email          string
	Phone          string
	Message        string
	MarketingOptIn bool
	Channel        string
	Source         string
	Campaign       string
	LandingPath    string
	SubmittedAt    string
}

var leadNotificationTemplate = template.Must(template.New("leadNotification").Parse(`
<h1 style="font-family: Helvetica, sans-serif; font-size: 22px; font-weight: bold; margin: 0; margin-bottom: 16px;">New lead</h1>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; margin-bottom: 16px;">A new contact form was submitted{{if .SubmittedAt}} at {{.SubmittedAt}}{{end}}.</p>
<table role="presentation" border="0" cellpadding="4" cellspacing="0" style="border-collapse: collapse; width: 100%; font-family: Helvetica, sans-serif; font-size: 15px;">
  <tr><td style="color: #9a9ea6; width: 140px;">Name</td><td>{{.Name}}</td></tr>
  <tr><td style="color: #9a9ea6;">Email</td><td>{{.Email}}</td></tr>
  {{if .Phone}}<tr><td style="color: #9a9ea6;">Phone</td><td>{{.Phone}}</td></tr>{{end}}
  <tr><td style="color: #9a9ea6;">Marketing opt-in</td><td>{{if .MarketingOptIn}}yes{{else}}no{{end}}</td></tr>
  {{if .Channel}}<tr><td style="color: #9a9ea6;">Channel</td><td>{{.Channel}}</td></tr>{{end}}
  {{if .Source}}<tr><td style="color: #9a9ea6;">Source</td><td>{{.Source}}</td></tr>{{end}}
  {{if .Campaign}}<tr><td style="color: #9a9ea6;">Campaign</td><td>{{.Campaign}}</td></tr>{{end}}
  {{if .LandingPath}}<tr><td style="color: #9a9ea6;">Landing page</td><td>{{.LandingPath}}</td></tr>{{end}}
</table>
{{if .Message}}
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 16px 0 4px; color: #9a9ea6;">Message</p>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; white-space: pre-wrap;">{{.Message}}</p>
{{end}}`))

// GetLeadNotificationContent renders the new-lead email body.
func GetLeadNotificationContent(props LeadNotificationProps) string {
	var buf bytes.Buffer
	if err := leadNotificationTemplate.Execute(&buf, props); err != nil {
		log.Printf("lead notification template execution failed: %v", err)
		return "A new lead was submitted by " + props.Email + "."
	}
	return buf.String()
}
