// Package mailer sends the best-effort order notification through an
// EmailJS-style relay. A failed send is logged and forgotten: the
// order record is already committed locally and is the source of
// truth.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Params is the template parameter map the relay expects.
type Params struct {
	ToName   string `json:"to_name"`
	FromName string `json:"from_name"`
	Message  string `json:"message"`
	ReplyTo  string `json:"reply_to"`
}

type Sender interface {
	Send(ctx context.Context, p Params) error
}

// Relay posts to the transactional relay with fixed service/template
// identifiers.
type Relay struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	UserID     string
	Client     *http.Client
}

func NewRelay(endpoint, serviceID, templateID, userID string) *Relay {
	return &Relay{
		Endpoint:   endpoint,
		ServiceID:  serviceID,
		TemplateID: templateID,
		UserID:     userID,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Relay) Send(ctx context.Context, p Params) error {
	payload := map[string]any{
		"service_id":      r.ServiceID,
		"template_id":     r.TemplateID,
		"user_id":         r.UserID,
		"template_params": p,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("relay returned %s", resp.Status)
	}
	return nil
}

// Noop is the disabled-config and test sender.
type Noop struct{}

func (Noop) Send(_ context.Context, p Params) error {
	log.Printf("mailer disabled; dropping notification for %s", p.ToName)
	return nil
}
