package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Relay forwards a submission to a third-party form service
type Relay interface {
	Forward(ctx context.Context, fields map[string]any) error
}

// FormRelay posts submissions to a Formspree compatible endpoint
type FormRelay struct {
	client *resty.Client
	url    string
}

func NewFormRelay(url string, timeout time.Duration) *FormRelay {
	return &FormRelay{
		client: resty.New().SetTimeout(timeout),
		url:    url,
	}
}

// Forward sends the fields as JSON; any non-2xx answer is an error
func (r *FormRelay) Forward(ctx context.Context, fields map[string]any) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(fields).
		Post(r.url)
	if err != nil {
		return fmt.Errorf("form relay request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("form relay returned status %d", resp.StatusCode())
	}
	return nil
}
