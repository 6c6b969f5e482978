package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// EnquiryKind tells the two form shapes apart
type EnquiryKind string

const (
	KindContact EnquiryKind = "contact"
	KindCareer  EnquiryKind = "career"
)

// Urgency is the self-assessed priority of a contact enquiry
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// ParseUrgency normalises a submitted urgency; anything unrecognised is medium,
// which is what the contact form preselects.
func ParseUrgency(s string) Urgency {
	switch u := Urgency(strings.ToLower(strings.TrimSpace(s))); u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return u
	default:
		return UrgencyMedium
	}
}

// Label is the human readable urgency shown in both emails
func (u Urgency) Label() string {
	switch u {
	case UrgencyLow:
		return "Low - General inquiry"
	case UrgencyHigh:
		return "High - Urgent matter"
	default:
		return "Medium - Need guidance soon"
	}
}

// ContactMethod is how the submitter wants to be reached
type ContactMethod string

const (
	ContactByEmail ContactMethod = "email"
	ContactByPhone ContactMethod = "phone"
)

// ParseContactMethod defaults to email for anything but "phone"
func ParseContactMethod(s string) ContactMethod {
	if ContactMethod(strings.ToLower(strings.TrimSpace(s))) == ContactByPhone {
		return ContactByPhone
	}
	return ContactByEmail
}

// FlexBool decodes the loose boolean values HTML forms and JS clients send
// ("on", "yes", "1", true).
type FlexBool bool

// UnmarshalText implements encoding.TextUnmarshaler for form bodies
func (b *FlexBool) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "on", "yes", "y":
		*b = true
	default:
		*b = false
	}
	return nil
}

// UnmarshalJSON accepts JSON booleans, numbers and strings
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	return b.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// ContactEnquiry is the body of POST /api/contact
type ContactEnquiry struct {
	Name             string        `json:"name" form:"name" validate:"required"`
	Email            string        `json:"email" form:"email" validate:"required"`
	Company          string        `json:"company" form:"company"`
	Phone            string        `json:"phone" form:"phone"`
	Subject          string        `json:"subject" form:"subject" validate:"required"`
	Message          string        `json:"message" form:"message" validate:"required"`
	Industry         string        `json:"industry" form:"industry"`
	PreferredContact ContactMethod `json:"preferredContact" form:"preferredContact"`
	Urgency          Urgency       `json:"urgency" form:"urgency"`
	Site             string        `json:"site" form:"site"`
	To               string        `json:"to" form:"to" validate:"required"`
}

// CareerEnquiry is the body of POST /api/careers-enquiry
type CareerEnquiry struct {
	Name             string        `json:"name" form:"name" validate:"required"`
	Email            string        `json:"email" form:"email" validate:"required"`
	Phone            string        `json:"phone" form:"phone"`
	PreferredContact ContactMethod `json:"preferredContact" form:"preferredContact"`
	Experience       string        `json:"experience" form:"experience"`
	Interest         string        `json:"interest" form:"interest"`
	Message          string        `json:"message" form:"message"`
	Newsletter       FlexBool      `json:"newsletter" form:"newsletter"`
	Site             string        `json:"site" form:"site"`
	To               string        `json:"to" form:"to" validate:"required"`
}

// SiteDisplayName turns a site tag into the brand used in email copy,
// e.g. "lane" -> "Lane".
func SiteDisplayName(site string) string {
	r, size := utf8.DecodeRuneInString(site)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + site[size:]
}
