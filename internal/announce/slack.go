// Package announce posts a short notice to a Slack channel when a session
// concludes.
package announce

import (
	"context"
	"fmt"
	"strconv"

	slacklib "github.com/slack-go/slack"

	"github.com/gavelgames/gavel/internal/courtroom"
	"github.com/gavelgames/gavel/internal/domain"
)

// SlackAPI abstracts the subset of the Slack client used by the announcer.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackAnnouncer implements courtroom.Announcer for Slack.
type SlackAnnouncer struct {
	api     SlackAPI
	channel string
}

// Compile-time interface check.
var _ courtroom.Announcer = (*SlackAnnouncer)(nil) //nolint:gochecknoglobals // compile-time check

// NewSlackAnnouncer creates a SlackAnnouncer posting to the given channel.
func NewSlackAnnouncer(api SlackAPI, channel string) *SlackAnnouncer {
	return &SlackAnnouncer{api: api, channel: channel}
}

// AnnounceVerdict posts the verdict summary.
func (a *SlackAnnouncer) AnnounceVerdict(_ context.Context, snap courtroom.Snapshot, verdict *domain.Verdict) error {
	_, _, err := a.api.PostMessage(a.channel, slacklib.MsgOptionText(FormatVerdict(snap, verdict), false))
	if err != nil {
		return fmt.Errorf("announce.SlackAnnouncer.AnnounceVerdict: %w", err)
	}

	return nil
}

// FormatVerdict renders the one-line announcement text.
func FormatVerdict(snap courtroom.Snapshot, verdict *domain.Verdict) string {
	outcome := "NOT GUILTY"
	if verdict.Guilty {
		outcome = "GUILTY"
	}

	score := strconv.FormatFloat(verdict.Score, 'f', -1, 64)
	return fmt.Sprintf(":scales: %q concluded: %s. Final score %s points after %d of %d steps (%d witnesses, %d exhibits, %d clues).",
		snap.Case.Title, outcome, score, snap.Step, snap.MaxSteps,
		len(snap.WitnessesCalled), len(snap.EvidencePresented), len(snap.CluesDiscovered))
}
