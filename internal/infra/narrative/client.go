// Package narrative triggers the external weekly coaching-text generator.
// The engine only supplies the week identifier; the generated narrative is
// delivered out of band and never consumed here.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client posts weekly generation requests to the coaching service.
type Client struct {
	url  string
	http *http.Client
	log  *logrus.Entry
}

// New creates a narrative client for the given endpoint URL.
func New(url string, log *logrus.Entry) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

type triggerRequest struct {
	Email  string `json:"email"`
	WeekID string `json:"weekId"`
}

// TriggerWeekly asks the external service to generate the coaching narrative
// for one user-week. Generation is asynchronous on the far side; any 2xx
// means the request was accepted. Failures are reported, never retried.
func (c *Client) TriggerWeekly(ctx context.Context, email, weekID string) error {
	body, err := json.Marshal(triggerRequest{Email: email, WeekID: weekID})
	if err != nil {
		return fmt.Errorf("encode trigger: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post weekly trigger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("weekly trigger rejected: status %d", resp.StatusCode)
	}

	c.log.WithFields(logrus.Fields{
		"user": email,
		"week": weekID,
	}).Info("weekly narrative triggered")
	return nil
}
