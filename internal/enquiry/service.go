package enquiry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/laneadvisory/lanesite/internal/logger"
	"github.com/laneadvisory/lanesite/internal/mail"
	"github.com/laneadvisory/lanesite/internal/metrics"
	"github.com/laneadvisory/lanesite/internal/models"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"
)

const submissionTimeLayout = "02/01/2006, 3:04:05 pm"

// Options configures a Service
type Options struct {
	// From overrides the sender's default from address when set
	From        string
	DefaultSite string
	Location    *time.Location
	PhoneRegion string
	// Relay is optional; submissions are forwarded after both emails went out
	Relay mail.Relay
}

// Receipt describes an accepted submission
type Receipt struct {
	Reference   string
	Kind        models.EnquiryKind
	SubmittedAt time.Time
	Urgency     models.Urgency
}

// Service validates enquiries and sends the notification and acknowledgement emails
type Service struct {
	sender      mail.Sender
	relay       mail.Relay
	validate    *validator.Validate
	from        string
	defaultSite string
	loc         *time.Location
	phoneRegion string
	now         func() time.Time
	newID       func() string
	log         zerolog.Logger
}

func NewService(sender mail.Sender, opts Options) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Service{
		sender:      sender,
		relay:       opts.Relay,
		validate:    v,
		from:        opts.From,
		defaultSite: opts.DefaultSite,
		loc:         loc,
		phoneRegion: opts.PhoneRegion,
		now:         time.Now,
		newID:       uuid.NewString,
		log:         logger.With("enquiry"),
	}
}

// SubmitContact handles a contact form submission
func (s *Service) SubmitContact(ctx context.Context, e *models.ContactEnquiry) (*Receipt, error) {
	s.sanitizeContact(e)
	if err := s.check(models.KindContact, e); err != nil {
		return nil, err
	}

	receipt := s.newReceipt(models.KindContact)
	receipt.Urgency = e.Urgency

	v := s.baseView(e.Site, receipt)
	v.Name = e.Name
	v.Email = e.Email
	v.Company = orDefault(e.Company, "Not provided")
	v.Phone = orDefault(s.displayPhone(e.Phone), "Not provided")
	v.PreferredContact = string(e.PreferredContact)
	v.Subject = e.Subject
	v.Industry = orDefault(e.Industry, "Not specified")
	v.UrgencyLabel = e.Urgency.Label()
	v.Message = e.Message
	v.ResponseTime = responseTime(e.Urgency)
	v.To = e.To

	subject := fmt.Sprintf("Contact Form: %s - %s", e.Subject, e.Name)
	if e.Urgency == models.UrgencyHigh {
		subject = "[URGENT] " + subject
	}

	notification, err := s.message("contact_notification", v, e.To, e.Email, subject)
	if err != nil {
		return nil, err
	}
	ack, err := s.message("contact_acknowledgement", v, e.Email, "",
		fmt.Sprintf("Thank you for contacting %s Consulting", v.Brand))
	if err != nil {
		return nil, err
	}

	if err := s.dispatch(ctx, models.KindContact, notification, ack); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reference", receipt.Reference).
		Str("name", e.Name).
		Str("email", e.Email).
		Str("site", e.Site).
		Str("subject", e.Subject).
		Str("urgency", string(e.Urgency)).
		Msg("Contact form submission received")

	s.forward(ctx, receipt, map[string]any{
		"name":             e.Name,
		"email":            e.Email,
		"company":          e.Company,
		"phone":            e.Phone,
		"subject":          e.Subject,
		"message":          e.Message,
		"industry":         e.Industry,
		"preferredContact": e.PreferredContact,
		"urgency":          e.Urgency,
		"site":             e.Site,
	})

	return receipt, nil
}

// SubmitCareer handles a careers enquiry
func (s *Service) SubmitCareer(ctx context.Context, e *models.CareerEnquiry) (*Receipt, error) {
	s.sanitizeCareer(e)
	if err := s.check(models.KindCareer, e); err != nil {
		return nil, err
	}

	receipt := s.newReceipt(models.KindCareer)

	v := s.baseView(e.Site, receipt)
	v.Name = e.Name
	v.Email = e.Email
	v.Phone = orDefault(s.displayPhone(e.Phone), "Not provided")
	v.PreferredContact = string(e.PreferredContact)
	v.Experience = orDefault(e.Experience, "Not specified")
	v.Interest = orDefault(e.Interest, "Not specified")
	v.Message = orDefault(e.Message, "No additional message provided")
	v.Newsletter = "No"
	if e.Newsletter {
		v.Newsletter = "Yes"
	}
	v.ResponseTime = responseCareer
	v.To = e.To

	notification, err := s.message("career_notification", v, e.To, e.Email,
		fmt.Sprintf("Career Enquiry from %s - %s Consulting", e.Name, v.Brand))
	if err != nil {
		return nil, err
	}
	ack, err := s.message("career_acknowledgement", v, e.Email, "",
		fmt.Sprintf("Thank you for your interest - %s Consulting & Advisory", v.Brand))
	if err != nil {
		return nil, err
	}

	if err := s.dispatch(ctx, models.KindCareer, notification, ack); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reference", receipt.Reference).
		Str("name", e.Name).
		Str("email", e.Email).
		Str("site", e.Site).
		Msg("Career enquiry received")

	s.forward(ctx, receipt, map[string]any{
		"name":             e.Name,
		"email":            e.Email,
		"phone":            e.Phone,
		"preferredContact": e.PreferredContact,
		"experience":       e.Experience,
		"interest":         e.Interest,
		"message":          e.Message,
		"newsletter":       bool(e.Newsletter),
		"site":             e.Site,
	})

	return receipt, nil
}

func (s *Service) sanitizeContact(e *models.ContactEnquiry) {
	trim(&e.Name, &e.Email, &e.Company, &e.Phone, &e.Subject, &e.Message, &e.Industry, &e.Site, &e.To)
	e.PreferredContact = models.ParseContactMethod(string(e.PreferredContact))
	e.Urgency = models.ParseUrgency(string(e.Urgency))
	if e.Site == "" {
		e.Site = s.defaultSite
	}
}

func (s *Service) sanitizeCareer(e *models.CareerEnquiry) {
	trim(&e.Name, &e.Email, &e.Phone, &e.Experience, &e.Interest, &e.Message, &e.Site, &e.To)
	e.PreferredContact = models.ParseContactMethod(string(e.PreferredContact))
	if e.Site == "" {
		e.Site = s.defaultSite
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func (s *Service) check(kind models.EnquiryKind, enquiry any) error {
	err := s.validate.Struct(enquiry)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %s enquiry: %w", kind, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	metrics.Enquiries.WithLabelValues(string(kind), metrics.OutcomeInvalid).Inc()
	return &ValidationError{Fields: fields}
}

func (s *Service) newReceipt(kind models.EnquiryKind) *Receipt {
	return &Receipt{
		Reference:   s.newID(),
		Kind:        kind,
		SubmittedAt: s.now().UTC(),
	}
}

func (s *Service) baseView(site string, r *Receipt) view {
	return view{
		Brand:       models.SiteDisplayName(site),
		Site:        site,
		Reference:   r.Reference,
		SubmittedAt: r.SubmittedAt.In(s.loc).Format(submissionTimeLayout),
	}
}

func (s *Service) message(tmpl string, v view, to, replyTo, subject string) (*mail.Message, error) {
	body, err := render(tmpl, v)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", tmpl, err)
	}
	return &mail.Message{
		From:    s.from,
		To:      []string{to},
		ReplyTo: replyTo,
		Subject: subject,
		Text:    body,
		Headers: map[string]string{"X-Enquiry-ID": v.Reference},
	}, nil
}

// dispatch sends the internal notification, then the acknowledgement. A failed
// acknowledgement does not undo the notification.
func (s *Service) dispatch(ctx context.Context, kind models.EnquiryKind, notification, ack *mail.Message) error {
	if err := s.sender.Send(ctx, notification); err != nil {
		metrics.Enquiries.WithLabelValues(string(kind), metrics.OutcomeDeliveryFailed).Inc()
		return &DeliveryError{Stage: "notification", Err: err}
	}
	if err := s.sender.Send(ctx, ack); err != nil {
		metrics.Enquiries.WithLabelValues(string(kind), metrics.OutcomeDeliveryFailed).Inc()
		return &DeliveryError{Stage: "acknowledgement", Err: err}
	}
	metrics.Enquiries.WithLabelValues(string(kind), metrics.OutcomeAccepted).Inc()
	return nil
}

func (s *Service) forward(ctx context.Context, r *Receipt, fields map[string]any) {
	if s.relay == nil {
		return
	}
	fields["kind"] = r.Kind
	fields["reference"] = r.Reference
	if err := s.relay.Forward(ctx, fields); err != nil {
		metrics.RelayFailures.Inc()
		s.log.Warn().
			Err(err).
			Str("reference", r.Reference).
			Msg("Failed to forward submission to form relay")
	}
}

// displayPhone renders parseable numbers in international format and
// leaves anything else as typed.
func (s *Service) displayPhone(raw string) string {
	if raw == "" || s.phoneRegion == "" {
		return raw
	}
	num, err := phonenumbers.Parse(raw, s.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

func responseTime(u models.Urgency) string {
	switch u {
	case models.UrgencyHigh:
		return responseHigh
	case models.UrgencyLow:
		return responseLow
	default:
		return responseMedium
	}
}
