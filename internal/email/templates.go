package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
	FooterURL  string
}

type invitationEmailData struct {
	baseEmailData
	FirstName        string
	OrganizationName string
}

type reminderEmailData struct {
	baseEmailData
	FirstName        string
	OrganizationName string
}

type welcomeEmailData struct {
	baseEmailData
	FullName         string
	OrganizationName string
}

type newTestimonialEmailData struct {
	baseEmailData
	FirstName   string
	CompanyName string
}

type ambassadorEmailData struct {
	baseEmailData
	FirstName string
}

type weeklyDigestEmailData struct {
	baseEmailData
	Digest WeeklyDigest
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
