package discover

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"gorm.io/gorm"

	"github.com/sportmatch/backend/internal/app"
	"github.com/sportmatch/backend/internal/auth"
	"github.com/sportmatch/backend/internal/db"
	"github.com/sportmatch/backend/internal/httperr"
	"github.com/sportmatch/backend/internal/matching"
	"github.com/sportmatch/backend/internal/repository"
)

const (
	defaultLimit     = 20
	maxLimit         = 50
	likedYouPageSize = 20
)

// Service implements the discovery endpoints: scored candidate browsing,
// like/pass decisions with match promotion, match listing and the liked-you
// feed. Business logic lives on exported methods; HTTP handlers are thin
// wrappers over them.
type Service struct {
	appCtx  *app.AppContext
	users   *repository.UserRepository
	likes   *repository.LikeRepository
	matches *repository.MatchRepository
}

// NewDiscoverService creates a new discover service with dependencies from AppContext.
func NewDiscoverService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		users:   repository.NewUserRepository(appCtx.DB),
		likes:   repository.NewLikeRepository(appCtx.DB),
		matches: repository.NewMatchRepository(appCtx.DB),
	}
}

// CandidateUser is the slice of a profile shown while browsing.
type CandidateUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Age      int    `json:"age,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

// Candidate pairs a browsable user with their compatibility score and the
// sports shared with the caller.
type Candidate struct {
	User         CandidateUser `json:"user"`
	Score        float64       `json:"compatibility_score"`
	CommonSports []string      `json:"common_sports"`
	LikedYou     bool          `json:"liked_you"`

	sortScore float64
}

func toCandidateUser(u *db.User) CandidateUser {
	return CandidateUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Age:      u.Age,
		Location: u.Location,
		Bio:      u.Bio,
		PhotoURL: u.PhotoURL,
		VideoURL: u.VideoURL,
	}
}

// Candidates returns up to limit users the caller could like, best first.
//
// Behavior:
//   - Excludes the caller, inactive users, and anyone the caller already
//     decided on (repository.ListCandidates).
//   - Scores each candidate with matching.Score and adds the reciprocal
//     bonus when the candidate already liked the caller. The bonus affects
//     ordering; the serialized score is clamped to 100.
//   - Ordered by score descending, candidate ID ascending on ties.
func (s *Service) Candidates(ctx context.Context, userID uint64, limit int) ([]Candidate, error) {
	me, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.users.ListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	likers, err := s.likes.LikerIDsOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	scored := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		score := matching.Score(me, c)

		sortScore := score
		_, likedMe := likers[c.ID]
		if likedMe {
			sortScore += matching.ReciprocalBonus
		}

		final := sortScore
		if final > 100 {
			final = 100
		}

		common := matching.CommonSports(me, c)
		if common == nil {
			common = []string{}
		}

		scored = append(scored, Candidate{
			User:         toCandidateUser(c),
			Score:        final,
			CommonSports: common,
			LikedYou:     likedMe,
			sortScore:    sortScore,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].sortScore != scored[j].sortScore {
			return scored[i].sortScore > scored[j].sortScore
		}
		return scored[i].User.ID < scored[j].User.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Decide records a like or pass from actor to target.
//
// Returns:
//   - matched: a mutual match now exists between the pair.
//   - newMatch: this call created the match row (false for the racing loser
//     when both sides like each other concurrently).
//
// Failure modes: self-decision → validation error, absent/inactive target →
// not found, repeated decision on the same target → conflict.
func (s *Service) Decide(ctx context.Context, actorID, targetID uint64, liked bool) (matched, newMatch bool, err error) {
	if actorID == targetID {
		return false, false, httperr.Invalid("cannot_decide_on_yourself")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, httperr.NotFound("user_not_found")
	} else if err != nil {
		return false, false, err
	}
	if !target.Active {
		return false, false, httperr.NotFound("user_not_found")
	}

	_, err = s.likes.Find(ctx, actorID, targetID)
	if err == nil {
		return false, false, httperr.Conflict("already_decided")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, err
	}

	if err := s.likes.Create(ctx, actorID, targetID, liked); err != nil {
		// two requests for the same pair can race past the check above;
		// the composite PK keeps one row and we report the loser as conflict
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, false, httperr.Conflict("already_decided")
		}
		return false, false, err
	}

	if !liked {
		return false, false, nil
	}

	// best-effort cache bump for the target's liked-you count
	if _, cerr := s.appCtx.RedisCache.BumpLikedYouCount(ctx, targetID); cerr != nil {
		s.appCtx.Logger.Warn("failed to bump liked-you counter", "target", targetID, "err", cerr)
	}

	reciprocal, err := s.likes.HasLiked(ctx, targetID, actorID)
	if err != nil {
		return false, false, err
	}
	if !reciprocal {
		return false, false, nil
	}

	created, err := s.matches.InsertIfAbsent(ctx, actorID, targetID)
	if err != nil {
		return false, false, err
	}
	if created {
		s.appCtx.Logger.Info("new match", "user_a", actorID, "user_b", targetID)
	}
	return true, created, nil
}

// MatchView is one row of the caller's match list, with the counterpart
// profile resolved for display.
type MatchView struct {
	MatchID   uint64        `json:"match_id"`
	User      CandidateUser `json:"user"`
	MatchedAt int64         `json:"matched_at"`
}

// Matches returns the caller's matches, newest first, each with the other
// user's profile resolved.
func (s *Service) Matches(ctx context.Context, userID uint64) ([]MatchView, error) {
	rows, err := s.matches.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]MatchView, 0, len(rows))
	for _, m := range rows {
		otherID := m.User1ID
		if otherID == userID {
			otherID = m.User2ID
		}
		other, err := s.users.FindByID(ctx, otherID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}
		views = append(views, MatchView{
			MatchID:   m.ID,
			User:      toCandidateUser(other),
			MatchedAt: m.CreatedAt.UnixMilli(),
		})
	}
	return views, nil
}

//
// HTTP handlers
//

func (s *Service) handleCandidates(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httperr.Write(w, httperr.Invalid("invalid_limit"))
			return
		}
		limit = min(n, maxLimit)
	}

	candidates, err := s.Candidates(r.Context(), auth.UserID(r.Context()), limit)
	if err != nil {
		s.appCtx.Logger.Error("candidate listing failed", "err", err)
		httperr.Write(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

func (s *Service) handleLike(w http.ResponseWriter, r *http.Request) {
	s.handleDecision(w, r, true)
}

func (s *Service) handlePass(w http.ResponseWriter, r *http.Request) {
	s.handleDecision(w, r, false)
}

func (s *Service) handleDecision(w http.ResponseWriter, r *http.Request, liked bool) {
	targetID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		httperr.Write(w, httperr.Invalid("invalid_user_id"))
		return
	}

	matched, _, err := s.Decide(r.Context(), auth.UserID(r.Context()), targetID, liked)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusCreated, map[string]bool{"match": matched})
}

func (s *Service) handleMatches(w http.ResponseWriter, r *http.Request) {
	views, err := s.Matches(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.appCtx.Logger.Error("match listing failed", "err", err)
		httperr.Write(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"matches": views})
}

// handleLikedYou lists users who liked the caller, cursor-paginated.
func (s *Service) handleLikedYou(w http.ResponseWriter, r *http.Request) {
	var token *string
	if raw := r.URL.Query().Get("page_token"); raw != "" {
		token = &raw
	}

	likes, nextToken, err := s.likes.GetLikers(r.Context(), auth.UserID(r.Context()), token, likedYouPageSize)
	if err != nil {
		httperr.Write(w, httperr.Invalid("invalid_page_token"))
		return
	}

	type liker struct {
		UserID  uint64 `json:"user_id"`
		LikedAt int64  `json:"liked_at"`
	}
	likers := make([]liker, 0, len(likes))
	for _, l := range likes {
		likers = append(likers, liker{UserID: l.LikerID, LikedAt: l.UpdatedAt.UnixMilli()})
	}

	resp := map[string]any{"likers": likers}
	if nextToken != nil {
		resp["next_page_token"] = *nextToken
	}
	httperr.WriteJSON(w, http.StatusOK, resp)
}

// handleLikedYouCount returns how many users liked the caller.
// Cache-first strategy:
//  1. Attempts to read from Redis (liked_you:count:userID).
//  2. On cache miss, falls back to the DB via repository.CountLikers.
//  3. On DB fetch, updates Redis with the standard TTL.
func (s *Service) handleLikedYouCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserID(ctx)

	if count, ok, err := s.appCtx.RedisCache.GetLikedYouCount(ctx, userID); err == nil && ok {
		httperr.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
		return
	}

	count, err := s.likes.CountLikers(ctx, userID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	if err := s.appCtx.RedisCache.SetLikedYouCount(ctx, userID, count); err != nil {
		s.appCtx.Logger.Warn("failed to cache liked-you count", "user_id", userID, "err", err)
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}
