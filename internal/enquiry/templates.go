package enquiry

import (
	"strings"
	"text/template"
)

var templates = template.Must(template.New("enquiry").Parse(`
{{- define "contact_notification" -}}
New Contact Form Submission - {{.Brand}} Consulting

Contact Details:
Name: {{.Name}}
Email: {{.Email}}
Company: {{.Company}}
Phone: {{.Phone}}
Preferred Contact: {{.PreferredContact}}

Inquiry Details:
Subject: {{.Subject}}
Industry: {{.Industry}}
Urgency: {{.UrgencyLabel}}

Message:
{{.Message}}

Submitted from: {{.Site}} contact form
Submission Time: {{.SubmittedAt}}
Reference: {{.Reference}}
{{end -}}

{{- define "contact_acknowledgement" -}}
Dear {{.Name}},

Thank you for contacting {{.Brand}} Consulting.

We've received your inquiry about "{{.Subject}}" and appreciate you taking the time to reach out.

Your inquiry details:
• Subject: {{.Subject}}
• Industry: {{.Industry}}
• Urgency: {{.UrgencyLabel}}

What happens next:
• {{.ResponseTime}}
• A member of our team will contact you via your preferred method
• We may schedule a complimentary initial consultation to better understand your needs

Our business hours are Monday to Friday, 8:30 AM - 6:00 PM AEST. For urgent matters outside these hours, we monitor our communications regularly.

In the meantime, feel free to explore our insights and resources on our website to learn more about our approach to governance, risk, and compliance.

Thank you for considering {{.Brand}} Consulting as your compliance partner.

Best regards,
The {{.Brand}} Consulting Team

---
This is an automated response. Please do not reply to this email.
For urgent enquiries, contact us directly at {{.To}}
{{end -}}

{{- define "career_notification" -}}
New Career Enquiry - {{.Brand}} Consulting

Contact Details:
Name: {{.Name}}
Email: {{.Email}}
Phone: {{.Phone}}
Preferred Contact: {{.PreferredContact}}

Professional Information:
Experience Level: {{.Experience}}
Area of Interest: {{.Interest}}

Message:
{{.Message}}

Newsletter Subscription: {{.Newsletter}}

Submitted from: {{.Site}} careers page
Submission Time: {{.SubmittedAt}}
Reference: {{.Reference}}
{{end -}}

{{- define "career_acknowledgement" -}}
Dear {{.Name}},

Thank you for your interest in joining {{.Brand}} Consulting.

We've received your career enquiry and will review it carefully. {{.ResponseTime}}

In the meantime, feel free to explore our insights and thought leadership on our website to learn more about our work in governance, risk, and compliance.

What's next:
• We'll review your enquiry and match it with current or upcoming opportunities
• If there's a potential fit, we'll reach out via your preferred contact method ({{.PreferredContact}})
• We may invite you for an initial conversation to learn more about your career goals

Thank you again for considering {{.Brand}} Consulting as your next career step.

Cheers,
The {{.Brand}} Consulting Team

---
This is an automated response. Please do not reply to this email.
For urgent enquiries, contact us directly at {{.To}}
{{end -}}
`))

// Response-time promises made in the acknowledgement emails
const (
	responseHigh   = "Given the urgent nature of your inquiry, we will prioritise your request and aim to respond within 4-8 hours during business hours"
	responseMedium = "We will review your inquiry and respond within 1 business day"
	responseLow    = "We will review your inquiry and respond within 2 business days"
	responseCareer = "Our team will be in touch within the next 5-7 business days to discuss potential opportunities that align with your background and interests."
)

// view is the data every template renders from. Optional fields already
// carry their placeholder text.
type view struct {
	Brand            string
	Site             string
	Reference        string
	SubmittedAt      string
	Name             string
	Email            string
	Company          string
	Phone            string
	PreferredContact string
	Subject          string
	Industry         string
	UrgencyLabel     string
	Experience       string
	Interest         string
	Message          string
	Newsletter       string
	ResponseTime     string
	To               string
}

func render(name string, v view) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func orDefault(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
