// Package gateway declares the surfaces the rank engine consumes from the
// community platform connection. The live connection adapter (the bot
// process) implements these; the core never imports a platform SDK.
package gateway

import (
	"context"
	"errors"
	"time"
)

// ErrTrackingUnavailable signals that the platform denied invite-usage
// reads, usually a missing manage-guild permission. Attribution for the
// in-flight event is skipped entirely when this is returned.
var ErrTrackingUnavailable = errors.New("invite tracking unavailable")

// ErrInviteNotFound signals that an invite code no longer resolves on the
// platform (deleted or expired externally).
var ErrInviteNotFound = errors.New("invite not found")

// Invite is one invite link as the platform reports it.
type Invite struct {
	Code string
	URL  string
	Uses int
}

// Member is the directory view of one account, enough for the fraud
// heuristic.
type Member struct {
	ID               string
	Username         string
	IsBot            bool
	AccountCreatedAt time.Time
	HasCustomAvatar  bool
}

// InviteSource reads and creates invites for a community.
type InviteSource interface {
	// FetchInviteUsage returns the current code -> use-count mapping.
	// Returns ErrTrackingUnavailable when the platform denies the read.
	FetchInviteUsage(ctx context.Context, communityID string) (map[string]int, error)
	// ResolveInvite looks up a single invite by code. Returns
	// ErrInviteNotFound when the code no longer exists.
	ResolveInvite(ctx context.Context, code string) (Invite, error)
	// CreateInvite mints a non-expiring, unlimited-use invite bound to the
	// given channel.
	CreateInvite(ctx context.Context, communityID, channelID string) (Invite, error)
}

// MemberDirectory looks up account attributes.
type MemberDirectory interface {
	GetMember(ctx context.Context, userID string) (Member, error)
}

// RoleMutator reads and mutates a member's role set. Mutations are
// best-effort from the core's point of view; failures are logged, never
// retried.
type RoleMutator interface {
	MemberRoles(ctx context.Context, userID string) ([]string, error)
	AddRoles(ctx context.Context, userID string, roleIDs []string) error
	RemoveRoles(ctx context.Context, userID string, roleIDs []string) error
}

// Notifier delivers a direct message, best-effort.
type Notifier interface {
	Notify(ctx context.Context, userID, text string) error
}
