package cron

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ghostlabs/ghostrank-backend/internal/inviters"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
)

type fakeLeaderboard struct {
	entries []inviters.LeaderboardEntry
	err     error
}

func (f *fakeLeaderboard) Increment(ctx context.Context, id string) error { return nil }
func (f *fakeLeaderboard) Decrement(ctx context.Context, id string) error { return nil }
func (f *fakeLeaderboard) Get(ctx context.Context, id string) (int, error) {
	return 0, nil
}

func (f *fakeLeaderboard) Leaderboard(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeNotifier struct {
	sent    map[string]string
	failFor map[string]bool
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, text string) error {
	if f.failFor[userID] {
		return errors.New("dms closed")
	}
	if f.sent == nil {
		f.sent = map[string]string{}
	}
	f.sent[userID] = text
	return nil
}

func TestWeeklyDigestMessagesTopInviters(t *testing.T) {
	counter := &fakeLeaderboard{entries: []inviters.LeaderboardEntry{
		{InviterID: "u-first", RealJoins: 101},
		{InviterID: "u-second", RealJoins: 14},
	}}
	notifier := &fakeNotifier{}

	job, err := NewWeeklyDigestJob(WeeklyDigestJobParams{
		Logger:   testLogger(),
		Counter:  counter,
		Notifier: notifier,
		Digest:   config.DigestConfig{TopSize: 10},
	})
	if err != nil {
		t.Fatalf("NewWeeklyDigestJob: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	first := notifier.sent["u-first"]
	if !strings.Contains(first, "#1") || !strings.Contains(first, "DIAMANTE") {
		t.Errorf("first place message = %q", first)
	}
	// at the top there is no next tier to chase
	if strings.Contains(first, "more to reach") {
		t.Errorf("top tier message mentions a next tier: %q", first)
	}

	second := notifier.sent["u-second"]
	if !strings.Contains(second, "#2") || !strings.Contains(second, "PRATA") || !strings.Contains(second, "16 more to reach OURO") {
		t.Errorf("second place message = %q", second)
	}
}

func TestWeeklyDigestContinuesPastDeliveryFailures(t *testing.T) {
	counter := &fakeLeaderboard{entries: []inviters.LeaderboardEntry{
		{InviterID: "u-closed", RealJoins: 5},
		{InviterID: "u-open", RealJoins: 3},
	}}
	notifier := &fakeNotifier{failFor: map[string]bool{"u-closed": true}}

	job, _ := NewWeeklyDigestJob(WeeklyDigestJobParams{
		Logger:   testLogger(),
		Counter:  counter,
		Notifier: notifier,
		Digest:   config.DigestConfig{},
	})
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := notifier.sent["u-open"]; !ok {
		t.Fatal("delivery failure aborted the digest")
	}
}

func TestWeeklyDigestPropagatesLeaderboardErrors(t *testing.T) {
	job, _ := NewWeeklyDigestJob(WeeklyDigestJobParams{
		Logger:   testLogger(),
		Counter:  &fakeLeaderboard{err: errors.New("db down")},
		Notifier: &fakeNotifier{},
		Digest:   config.DigestConfig{},
	})
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
