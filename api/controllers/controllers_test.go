package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ghostlabs/ghostrank-backend/internal/inviters"
	"github.com/ghostlabs/ghostrank-backend/internal/tracker"
	"github.com/ghostlabs/ghostrank-backend/pkg/enums"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type testTrackerService struct {
	handleFn      func(ctx context.Context, event tracker.Event) tracker.Outcome
	summaryFn     func(ctx context.Context, userID string) (tracker.RankSummary, error)
	leaderboardFn func(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error)
	inviteFn      func(ctx context.Context, userID string) (string, error)
}

func (s *testTrackerService) HandleEvent(ctx context.Context, event tracker.Event) tracker.Outcome {
	if s.handleFn != nil {
		return s.handleFn(ctx, event)
	}
	return tracker.Outcome{Status: enums.OutcomeApplied}
}

func (s *testTrackerService) GetRankSummary(ctx context.Context, userID string) (tracker.RankSummary, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx, userID)
	}
	return tracker.RankSummary{UserID: userID}, nil
}

func (s *testTrackerService) GetLeaderboard(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error) {
	if s.leaderboardFn != nil {
		return s.leaderboardFn(ctx, limit)
	}
	return nil, nil
}

func (s *testTrackerService) PersonalInviteURL(ctx context.Context, userID string) (string, error) {
	if s.inviteFn != nil {
		return s.inviteFn(ctx, userID)
	}
	return "https://invite.test/x", nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestMemberRankSuccess(t *testing.T) {
	svc := &testTrackerService{
		summaryFn: func(ctx context.Context, userID string) (tracker.RankSummary, error) {
			return tracker.RankSummary{
				UserID:   userID,
				Count:    29,
				Tier:     enums.TierPrata,
				NextTier: enums.TierOuro,
				Missing:  1,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/u1/rank", nil)
	req = withURLParam(req, "userID", "u1")
	resp := httptest.NewRecorder()

	MemberRank(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data tracker.RankSummary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Tier != enums.TierPrata || envelope.Data.Missing != 1 {
		t.Fatalf("summary = %+v", envelope.Data)
	}
}

func TestMemberRankMissingParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members//rank", nil)
	req = withURLParam(req, "userID", "")
	resp := httptest.NewRecorder()

	MemberRank(&testTrackerService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestMemberInviteMintsURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members/u2/invite", nil)
	req = withURLParam(req, "userID", "u2")
	resp := httptest.NewRecorder()

	MemberInvite(&testTrackerService{}, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "https://invite.test/x") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestRankingRespectsLimit(t *testing.T) {
	var gotLimit int
	svc := &testTrackerService{
		leaderboardFn: func(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error) {
			gotLimit = limit
			return []inviters.LeaderboardEntry{{InviterID: "a", RealJoins: 2}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ranking?limit=5", nil)
	resp := httptest.NewRecorder()

	Ranking(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if gotLimit != 5 {
		t.Fatalf("limit = %d, want 5", gotLimit)
	}
}

func TestRankingLimitFromRoutePath(t *testing.T) {
	var gotLimit int
	svc := &testTrackerService{
		leaderboardFn: func(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error) {
			gotLimit = limit
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ranking/3", nil)
	req = withURLParam(req, "limit", "3")
	resp := httptest.NewRecorder()

	Ranking(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if gotLimit != 3 {
		t.Fatalf("limit = %d, want 3", gotLimit)
	}
}

func TestRankingRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ranking?limit=9999", nil)
	resp := httptest.NewRecorder()

	Ranking(&testTrackerService{}, nil, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

type fakeRankingCache struct {
	store map[string]string
}

func (f *fakeRankingCache) CacheKey(parts ...string) string {
	return "gr:cache:" + strings.Join(parts, ":")
}

func (f *fakeRankingCache) GetCached(ctx context.Context, key string) (string, error) {
	if payload, ok := f.store[key]; ok {
		return payload, nil
	}
	return "", redis.Nil
}

func (f *fakeRankingCache) SetCached(ctx context.Context, key, payload string, ttl time.Duration) error {
	if f.store == nil {
		f.store = map[string]string{}
	}
	f.store[key] = payload
	return nil
}

func TestRankingUsesCacheOnSecondHit(t *testing.T) {
	calls := 0
	svc := &testTrackerService{
		leaderboardFn: func(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error) {
			calls++
			return []inviters.LeaderboardEntry{{InviterID: "a", RealJoins: 7}}, nil
		},
	}
	cache := &fakeRankingCache{}
	handler := Ranking(svc, cache, testLogger())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ranking", nil)
		resp := httptest.NewRecorder()
		handler(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d", resp.Code)
		}
	}

	if calls != 1 {
		t.Fatalf("service hit %d times, want 1", calls)
	}
}

func TestInjectEventRoutesToPipeline(t *testing.T) {
	var got tracker.Event
	svc := &testTrackerService{
		handleFn: func(ctx context.Context, event tracker.Event) tracker.Outcome {
			got = event
			return tracker.Outcome{Status: enums.OutcomeSkipped, Reason: enums.ReasonNoPriorSnapshot}
		},
	}

	body := `{"kind":"member_arrived","member_id":"m1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	resp := httptest.NewRecorder()

	InjectEvent(svc, testLogger())(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if got.Kind != enums.EventMemberArrived || got.MemberID != "m1" {
		t.Fatalf("event = %+v", got)
	}
	if !strings.Contains(resp.Body.String(), "no_prior_snapshot") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestInjectEventRejectsUnknownKind(t *testing.T) {
	body := `{"kind":"member_exploded","member_id":"m1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	resp := httptest.NewRecorder()

	InjectEvent(&testTrackerService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}
