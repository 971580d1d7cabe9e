package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	domain "lomba-pmr/internal/domain/competition"
	"lomba-pmr/pkg/logger"
)

// StandingsCache is the cache collaborator for rendered leaderboards.
// Implemented by the Redis cache; tests plug in fakes.
type StandingsCache interface {
	Get(ctx context.Context, eventKey string, category domain.Category, dest interface{}) (bool, error)
	Set(ctx context.Context, eventKey string, category domain.Category, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, eventKey string, category domain.Category) error
}

// Standing is one ranked row of a leaderboard.
type Standing struct {
	Rank           int     `json:"rank"`
	RegistrationID string  `json:"registration_id"`
	SchoolName     string  `json:"school_name"`
	TeamIndex      int     `json:"team_index"`
	Score          float64 `json:"score"`
}

// LeaderboardService computes per-(event, category) standings from judged
// scores.
type LeaderboardService struct {
	scoreRepo domain.ScoreRepository
	regRepo   domain.RegistrationRepository
	cache     StandingsCache
	cacheTTL  time.Duration
}

// NewLeaderboardService creates a new leaderboard service. cache may be nil
// to disable caching.
func NewLeaderboardService(
	scoreRepo domain.ScoreRepository,
	regRepo domain.RegistrationRepository,
	cache StandingsCache,
	cacheTTL time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		scoreRepo: scoreRepo,
		regRepo:   regRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// SubmitScore records a judged score for a team slot and invalidates the
// affected leaderboard snapshot.
func (s *LeaderboardService) SubmitScore(ctx context.Context, req *domain.SubmitScoreRequest) (*domain.ScoreEntry, error) {
	event, ok := domain.EventByKey(req.EventKey)
	if !ok {
		return nil, fmt.Errorf("unknown event key %q", req.EventKey)
	}
	if !event.Scored {
		return nil, fmt.Errorf("event %q is not scored", req.EventKey)
	}

	reg, err := s.regRepo.GetByID(ctx, req.RegistrationID)
	if err != nil {
		return nil, err
	}
	if req.TeamIndex > reg.TeamCount(req.EventKey) {
		return nil, fmt.Errorf("school %q has no team %d in event %q", reg.SchoolName, req.TeamIndex, req.EventKey)
	}

	score := &domain.ScoreEntry{
		RegistrationID: req.RegistrationID,
		EventKey:       req.EventKey,
		TeamIndex:      req.TeamIndex,
		Score:          req.Score,
	}
	if err := s.scoreRepo.Upsert(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, req.EventKey, reg.Category); err != nil {
			logger.Warn("Failed to invalidate standings cache for %s/%s: %v", req.EventKey, reg.Category, err)
		}
	}
	return score, nil
}

// Standings returns the ranked leaderboard for one (event, category) scope,
// served from cache when fresh.
func (s *LeaderboardService) Standings(ctx context.Context, eventKey string, category domain.Category) ([]Standing, error) {
	if _, ok := domain.EventByKey(eventKey); !ok {
		return nil, fmt.Errorf("unknown event key %q", eventKey)
	}

	if s.cache != nil {
		var cached []Standing
		hit, err := s.cache.Get(ctx, eventKey, category, &cached)
		if err != nil {
			logger.Warn("Standings cache read failed for %s/%s: %v", eventKey, category, err)
		} else if hit {
			return cached, nil
		}
	}

	standings, err := s.computeStandings(ctx, eventKey, category)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, eventKey, category, standings, s.cacheTTL); err != nil {
			logger.Warn("Standings cache write failed for %s/%s: %v", eventKey, category, err)
		}
	}
	return standings, nil
}

// OverallStanding is one school's aggregate over every scored event, the
// basis for the juara umum award.
type OverallStanding struct {
	Rank           int     `json:"rank"`
	RegistrationID string  `json:"registration_id"`
	SchoolName     string  `json:"school_name"`
	Events         int     `json:"events"`
	TotalScore     float64 `json:"total_score"`
}

// OverallStandings ranks schools in one category by their total score across
// all events. Computed from the full score table on every call; the result
// set is small enough that it is not cached.
func (s *LeaderboardService) OverallStandings(ctx context.Context, category domain.Category) ([]OverallStanding, error) {
	scores, err := s.scoreRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	regs, err := s.regRepo.List(ctx, domain.RegistrationFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registrations: %w", err)
	}

	totals := make(map[string]*OverallStanding, len(regs))
	for _, reg := range regs {
		totals[reg.ID.String()] = &OverallStanding{
			RegistrationID: reg.ID.String(),
			SchoolName:     reg.SchoolName,
		}
	}
	for _, score := range scores {
		standing, ok := totals[score.RegistrationID.String()]
		if !ok {
			continue
		}
		standing.Events++
		standing.TotalScore += score.Score
	}

	standings := make([]OverallStanding, 0, len(totals))
	for _, standing := range totals {
		if standing.Events > 0 {
			standings = append(standings, *standing)
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].TotalScore != standings[j].TotalScore {
			return standings[i].TotalScore > standings[j].TotalScore
		}
		return standings[i].SchoolName < standings[j].SchoolName
	})
	for i := range standings {
		if i > 0 && standings[i].TotalScore == standings[i-1].TotalScore {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings, nil
}

func (s *LeaderboardService) computeStandings(ctx context.Context, eventKey string, category domain.Category) ([]Standing, error) {
	scores, err := s.scoreRepo.ListByEvent(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	regs, err := s.regRepo.List(ctx, domain.RegistrationFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registrations: %w", err)
	}

	schools := make(map[string]*domain.SchoolRegistration, len(regs))
	for _, reg := range regs {
		schools[reg.ID.String()] = reg
	}

	standings := make([]Standing, 0, len(scores))
	for _, score := range scores {
		reg, ok := schools[score.RegistrationID.String()]
		if !ok {
			// Score belongs to another category or a removed registration.
			continue
		}
		standings = append(standings, Standing{
			RegistrationID: score.RegistrationID.String(),
			SchoolName:     reg.SchoolName,
			TeamIndex:      score.TeamIndex,
			Score:          score.Score,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if standings[i].SchoolName != standings[j].SchoolName {
			return standings[i].SchoolName < standings[j].SchoolName
		}
		return standings[i].TeamIndex < standings[j].TeamIndex
	})

	// Equal scores share a rank.
	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings, nil
}
