package gateway

import "context"

// Unavailable is the stand-in wired when a binary runs without a live
// platform connection: every read reports tracking unavailable and every
// side effect is a no-op. Read-only surfaces (ranking, rank summaries)
// keep working against the local store.
type Unavailable struct{}

var (
	_ InviteSource    = Unavailable{}
	_ MemberDirectory = Unavailable{}
	_ RoleMutator     = Unavailable{}
	_ Notifier        = Unavailable{}
)

func (Unavailable) FetchInviteUsage(ctx context.Context, communityID string) (map[string]int, error) {
	return nil, ErrTrackingUnavailable
}

func (Unavailable) ResolveInvite(ctx context.Context, code string) (Invite, error) {
	return Invite{}, ErrInviteNotFound
}

func (Unavailable) CreateInvite(ctx context.Context, communityID, channelID string) (Invite, error) {
	return Invite{}, ErrTrackingUnavailable
}

func (Unavailable) GetMember(ctx context.Context, userID string) (Member, error) {
	return Member{}, ErrTrackingUnavailable
}

func (Unavailable) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	return nil, ErrTrackingUnavailable
}

func (Unavailable) AddRoles(ctx context.Context, userID string, roleIDs []string) error {
	return ErrTrackingUnavailable
}

func (Unavailable) RemoveRoles(ctx context.Context, userID string, roleIDs []string) error {
	return ErrTrackingUnavailable
}

func (Unavailable) Notify(ctx context.Context, userID, text string) error {
	return ErrTrackingUnavailable
}
