package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/model"
	"github.com/stemsi/cutoff-backend/internal/repository"
)

// QueryService answers every read the API exposes. It keeps no state between
// calls; unknown ids produce empty results, never errors.
type QueryService interface {
	ListStates(ctx context.Context) ([]model.State, error)
	ListColleges(ctx context.Context) ([]model.College, error)
	ListCollegesByState(ctx context.Context, stateID int) ([]model.College, error)
	GetBestCutoffsByState(ctx context.Context, stateID int) ([]model.CutoffWithCollege, error)
	GetCutoffsByCollege(ctx context.Context, collegeID int) ([]model.Cutoff, error)
	GetCollegeName(ctx context.Context, collegeID int) (*string, error)
	GetStateName(ctx context.Context, stateID int) (*string, error)
	ListCategoriesByState(ctx context.Context, stateID int) ([]string, error)
}

type queryService struct {
	stateRepo   repository.StateRepository
	collegeRepo repository.CollegeRepository
	cutoffRepo  repository.CutoffRepository
	timeout     time.Duration
	log         zerolog.Logger
}

// NewQueryService wires the repositories. A positive timeout bounds every
// operation's store access.
func NewQueryService(
	stateRepo repository.StateRepository,
	collegeRepo repository.CollegeRepository,
	cutoffRepo repository.CutoffRepository,
	timeout time.Duration,
	log zerolog.Logger,
) QueryService {
	return &queryService{
		stateRepo:   stateRepo,
		collegeRepo: collegeRepo,
		cutoffRepo:  cutoffRepo,
		timeout:     timeout,
		log:         log.With().Str("component", "query_service").Logger(),
	}
}

func (s *queryService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *queryService) ListStates(ctx context.Context) ([]model.State, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.stateRepo.GetAll(ctx)
}

func (s *queryService) ListColleges(ctx context.Context) ([]model.College, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.collegeRepo.GetAll(ctx)
}

func (s *queryService) ListCollegesByState(ctx context.Context, stateID int) ([]model.College, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.collegeRepo.GetByState(ctx, stateID)
}

// GetBestCutoffsByState returns, per category, every cutoff in the state that
// carries the category's highest closing rank, each annotated with its
// college's name. Colleges missing from the store are reported as "Unknown".
func (s *queryService) GetBestCutoffsByState(ctx context.Context, stateID int) ([]model.CutoffWithCollege, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	cutoffs, err := s.cutoffRepo.GetMaxRankByState(ctx, stateID)
	if err != nil {
		return nil, err
	}

	result := make([]model.CutoffWithCollege, 0, len(cutoffs))
	if len(cutoffs) == 0 {
		return result, nil
	}

	colleges, err := s.collegeRepo.GetByIDs(ctx, distinctCollegeIDs(cutoffs))
	if err != nil {
		return nil, err
	}
	byID := make(map[int]model.College, len(colleges))
	for _, c := range colleges {
		byID[c.ID] = c
	}

	for _, cutoff := range cutoffs {
		name := model.UnknownCollegeName
		if college, ok := byID[cutoff.CollegeID]; ok {
			name = college.Name
			if college.StateID != cutoff.StateID {
				s.log.Warn().
					Int("cutoff_id", cutoff.ID).
					Int("college_id", college.ID).
					Int("cutoff_state_id", cutoff.StateID).
					Int("college_state_id", college.StateID).
					Msg("Cutoff state differs from its college's state")
			}
		}
		result = append(result, model.CutoffWithCollege{Cutoff: cutoff, CollegeName: name})
	}
	return result, nil
}

func (s *queryService) GetCutoffsByCollege(ctx context.Context, collegeID int) ([]model.Cutoff, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.cutoffRepo.GetByCollege(ctx, collegeID)
}

func (s *queryService) GetCollegeName(ctx context.Context, collegeID int) (*string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.collegeRepo.GetNameByID(ctx, collegeID)
}

func (s *queryService) GetStateName(ctx context.Context, stateID int) (*string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.stateRepo.GetNameByID(ctx, stateID)
}

func (s *queryService) ListCategoriesByState(ctx context.Context, stateID int) ([]string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.cutoffRepo.GetCategoriesByState(ctx, stateID)
}

// distinctCollegeIDs keeps first-seen order.
func distinctCollegeIDs(cutoffs []model.Cutoff) []int {
	seen := make(map[int]struct{}, len(cutoffs))
	ids := make([]int, 0, len(cutoffs))
	for _, c := range cutoffs {
		if _, ok := seen[c.CollegeID]; ok {
			continue
		}
		seen[c.CollegeID] = struct{}{}
		ids = append(ids, c.CollegeID)
	}
	return ids
}
