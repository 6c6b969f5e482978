package models

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// JobStatus is the lifecycle state of a job posting
type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// SalaryRange is the optional pay band of a posting
type SalaryRange struct {
	Min             float64 `json:"min,omitempty"`
	Max             float64 `json:"max,omitempty"`
	DisplayPublicly bool    `json:"displayPublicly"`
}

var salaryPrinter = message.NewPrinter(language.English)

// Display renders the range for the careers page, or "" when it must stay hidden.
func (s *SalaryRange) Display() string {
	if s == nil || !s.DisplayPublicly {
		return ""
	}
	lo, hi := int64(math.Round(s.Min)), int64(math.Round(s.Max))
	switch {
	case lo > 0 && hi > 0:
		return salaryPrinter.Sprintf("$%d - $%d", lo, hi)
	case lo > 0:
		return salaryPrinter.Sprintf("From $%d", lo)
	}
	return ""
}

// Date is a calendar date that also tolerates full timestamps
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// UnmarshalJSON accepts "2006-01-02" and RFC 3339 values
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date %s: %w", data, err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the date part only
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// JobPosting is an advertised role as returned to the page layer
type JobPosting struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Slug                string       `json:"slug,omitempty"`
	Department          string       `json:"department"`
	Location            string       `json:"location"`
	EmploymentType      string       `json:"employmentType"`
	ExperienceLevel     string       `json:"experienceLevel,omitempty"`
	Summary             string       `json:"summary"`
	Skills              []string     `json:"skills,omitempty"`
	SalaryRange         *SalaryRange `json:"salaryRange,omitempty"`
	ApplicationEmail    string       `json:"applicationEmail"`
	ApplicationDeadline *Date        `json:"applicationDeadline,omitempty"`
	Status              JobStatus    `json:"status"`
	Urgent              bool         `json:"urgent"`
	Featured            bool         `json:"featured"`
	PublishedAt         time.Time    `json:"publishedAt"`
	Site                string       `json:"site"`
}

// EmploymentTypeLabel formats "full-time" as "Full-Time"
func (j JobPosting) EmploymentTypeLabel() string {
	words := strings.Split(j.EmploymentType, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, "-")
}

// ApplicationMailto builds the "Apply" link of a posting
func (j JobPosting) ApplicationMailto() string {
	if j.ApplicationEmail == "" {
		return ""
	}
	subject := "Application for " + j.Title
	body := fmt.Sprintf("Dear Team,\r\n\r\nI am interested in applying for the %s position.\r\n\r\nPlease find my application details below:\r\n\r\n", j.Title)
	return "mailto:" + j.ApplicationEmail + "?subject=" + mailtoEscape(subject) + "&body=" + mailtoEscape(body)
}

func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
