// Package notify posts a summary of each newly saved routine version
// to a configured webhook, so external tooling (chat bots, automation)
// can react to protocol changes.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/regimenhq/regimen/internal/utils"
	"github.com/regimenhq/regimen/pkg/storage"
)

type Notifier struct {
	url    string
	client *retryablehttp.Client
}

// New returns a notifier for the given webhook URL, or nil when the
// URL is empty so callers can skip notification entirely.
func New(url string) *Notifier {
	if url == "" {
		return nil
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil
	return &Notifier{url: url, client: client}
}

// versionEvent is the webhook payload. Counts instead of full items:
// receivers that want detail can fetch the version by id.
type versionEvent struct {
	Event         string    `json:"event"`
	VersionID     string    `json:"version_id"`
	UserID        string    `json:"user_id"`
	VersionNumber int       `json:"version_number"`
	Reason        string    `json:"reason,omitempty"`
	DietChanged   bool      `json:"diet_changed"`
	MacrosChanged bool      `json:"macros_changed"`
	Started       int       `json:"started"`
	Stopped       int       `json:"stopped"`
	Modified      int       `json:"modified"`
	CreatedAt     time.Time `json:"created_at"`
}

// VersionCreated delivers the event. Failures are logged and dropped;
// a webhook outage must never fail the save that triggered it.
func (n *Notifier) VersionCreated(ctx context.Context, v *storage.RoutineVersion) {
	payload := versionEvent{
		Event:         "routine_version.created",
		VersionID:     v.ID,
		UserID:        v.UserID,
		VersionNumber: v.VersionNumber,
		Reason:        v.Reason,
		DietChanged:   v.Changes.DietChanged != nil,
		MacrosChanged: v.Changes.MacrosChanged != nil,
		Started:       len(v.Changes.Started),
		Stopped:       len(v.Changes.Stopped),
		Modified:      len(v.Changes.Modified),
		CreatedAt:     v.CreatedAt,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		utils.Log.Error("webhook payload: ", err)
		return
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(raw))
	if err != nil {
		utils.Log.Error("webhook request: ", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		utils.Log.Warn("webhook delivery failed: ", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		utils.Log.Warn("webhook returned status ", resp.StatusCode)
		return
	}
	utils.Log.Debug("webhook delivered for version ", v.VersionNumber)
}
