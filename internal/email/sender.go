// Package email renders transactional emails from embedded templates and
// delivers them through Brevo or SMTP.
package email

import (
	"context"
	"fmt"

	"testimonials_backend/platform/config"
)

const (
	subjectInvitationFmt     = "%s would love your video testimonial"
	subjectReminderFmt       = "Reminder: share your experience with %s"
	subjectWelcomeFmt        = "Welcome to Testimonials, %s"
	subjectNewTestimonialFmt = "New video testimonial from %s"
	subjectAmbassadorFmt     = "%s became an ambassador"
	subjectWeeklyDigestFmt   = "Your week at %s"
)

// WeeklyDigest is the content of the weekly digest email.
type WeeklyDigest struct {
	OrganizationName    string
	NewContacts         int
	NewVideos           int
	NewShares           int
	NewAmbassadors      int
	TotalContacts       int
	VideosUsed          int
	VideosLimit         int
	RecommendationTitle string
	RecommendationText  string
	CTALabel            string
	CTAURL              string
}

// Sender sends the application's emails.
type Sender interface {
	SendInvitationEmail(ctx context.Context, toEmail, firstName, organizationName, recordingURL string) error
	SendReminderEmail(ctx context.Context, toEmail, firstName, organizationName, recordingURL, unsubscribeURL string) error
	SendWelcomeEmail(ctx context.Context, toEmail, fullName, organizationName, dashboardURL string) error
	SendNewTestimonialEmail(ctx context.Context, toEmail, firstName, companyName, reviewURL string) error
	SendAmbassadorEmail(ctx context.Context, toEmail, firstName, contactURL string) error
	SendWeeklyDigestEmail(ctx context.Context, toEmail string, digest WeeklyDigest) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender drops every email. Used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendInvitationEmail(ctx context.Context, toEmail, firstName, organizationName, recordingURL string) error {
	return nil
}

func (NoopSender) SendReminderEmail(ctx context.Context, toEmail, firstName, organizationName, recordingURL, unsubscribeURL string) error {
	return nil
}

func (NoopSender) SendWelcomeEmail(ctx context.Context, toEmail, fullName, organizationName, dashboardURL string) error {
	return nil
}

func (NoopSender) SendNewTestimonialEmail(ctx context.Context, toEmail, firstName, companyName, reviewURL string) error {
	return nil
}

func (NoopSender) SendAmbassadorEmail(ctx context.Context, toEmail, firstName, contactURL string) error {
	return nil
}

func (NoopSender) SendWeeklyDigestEmail(ctx context.Context, toEmail string, digest WeeklyDigest) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// deliverer hands a rendered message to a provider.
type deliverer interface {
	deliver(ctx context.Context, toEmail, subject, htmlContent string) error
}

// TemplateSender renders templates and delivers them through a provider.
type TemplateSender struct {
	transport deliverer
}

// NewSender returns the sender selected by configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "smtp":
		return &TemplateSender{transport: NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)}, nil
	case "brevo", "":
		return &TemplateSender{transport: NewBrevoSender(
			cfg.GetBrevoAPIKey(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}

func (s *TemplateSender) SendInvitationEmail(ctx context.Context, toEmail, firstName, organizationName, recordingURL string) error {
	content, err := renderEmailTemplate("invitation.html", invitationEmailData{
		baseEmailData: baseEmailData{
			Title:    "Share your experience",
			Heading:  "Share your experience",
			CTALabel: "Record my video",
			CTAURL:   recordingURL,
		},
		FirstName:        firstName,
		OrganizationName: organizationName,
	})
	if err != nil {
		return err
	}
	return s.transport.deliver(ctx, toEmail, fmt.Sprintf(subjectInvitationFmt, organizationName), content)
}

func (s *TemplateSender) SendReminderEmail(ctx context.Context, toEmail, firstName, organizationName, recordingURL, unsubscribeURL string) error {
	content, err := renderEmailTemplate("reminder.html", reminderEmailData{
		baseEmailData: baseEmailData{
			Title:     "A quick reminder",
			Heading:   "A quick reminder",
			CTALabel:  "Record my video",
			CTAURL:    recordingURL,
			FooterURL: unsubscribeURL,
		},
		FirstName:        firstName,
		OrganizationName: organizationName,
	})
	if err != nil {
		return err
	}
	return s.transport.deliver(ctx, toEmail, fmt.Sprintf(subjectReminderFmt, organizationName), content)
}

func (s *TemplateSender) SendWelcomeEmail(ctx context.Context, toEmail, fullName, organizationName, dashboardURL string) error {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:    "Welcome",
			Heading:  "Welcome aboard",
			CTALabel: "Open dashboard",
			CTAURL:   dashboardURL,
		},
		FullName:         fullName,
		OrganizationName: organizationName,
	})
	if err != nil {
		return err
	}
	return s.transport.deliver(ctx, toEmail, fmt.Sprintf(subjectWelcomeFmt, fullName), content)
}

func (s *TemplateSender) SendNewTestimonialEmail(ctx context.Context, toEmail, firstName, companyName, reviewURL string) error {
	content, err := renderEmailTemplate("new_testimonial.html", newTestimonialEmailData{
		baseEmailData: baseEmailData{
			Title:    "New video testimonial",
			Heading:  "You received a new video",
			CTALabel: "Review testimonial",
			CTAURL:   reviewURL,
		},
		FirstName:   firstName,
		CompanyName: companyName,
	})
	if err != nil {
		return err
	}
	return s.transport.deliver(ctx, toEmail, fmt.Sprintf(subjectNewTestimonialFmt, firstName), content)
}

func (s *TemplateSender) SendAmbassadorEmail(ctx context.Context, toEmail, firstName, contactURL string) error {
	content, err := renderEmailTemplate("ambassador.html", ambassadorEmailData{
		baseEmailData: baseEmailData{
			Title:    "New ambassador",
			Heading:  "You have a new ambassador",
			CTALabel: "View contact",
			CTAURL:   contactURL,
		},
		FirstName: firstName,
	})
	if err != nil {
		return err
	}
	return s.transport.deliver(ctx, toEmail, fmt.Sprintf(subjectAmbassadorFmt, firstName), content)
}

func (s *TemplateSender) SendWeeklyDigestEmail(ctx context.Context, toEmail string, digest WeeklyDigest) error {
	content, err := renderEmailTemplate("weekly_digest.html", weeklyDigestEmailData{
		baseEmailData: baseEmailData{
			Title:    "Your weekly digest",
			Heading:  "Your weekly digest",
			CTALabel: digest.CTALabel,
			CTAURL:   digest.CTAURL,
		},
		Digest: digest,
	})
	if err != nil {
		return err
	}
	return s.transport.deliver(ctx, toEmail, fmt.Sprintf(subjectWeeklyDigestFmt, digest.OrganizationName), content)
}

func (s *TemplateSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.transport.deliver(ctx, toEmail, subject, htmlContent)
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*TemplateSender)(nil)
)
