package repository

import (
	"context"

	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/model"
)

type CutoffRepository interface {
	GetByCollege(ctx context.Context, collegeID int) ([]model.Cutoff, error)
	GetMaxRankByState(ctx context.Context, stateID int) ([]model.Cutoff, error)
	GetCategoriesByState(ctx context.Context, stateID int) ([]string, error)
}

type cutoffRepository struct {
	db database.Store
}

func NewCutoffRepository(db database.Store) CutoffRepository {
	return &cutoffRepository{db: db}
}

func (r *cutoffRepository) GetByCollege(ctx context.Context, collegeID int) ([]model.Cutoff, error) {
	query := `
		SELECT id, college_id, state_id, category, closing_rank
		FROM cutoffs
		WHERE college_id = $1
		ORDER BY id ASC
	`
	return queryAll[model.Cutoff](ctx, r.db, query, collegeID)
}

// GetMaxRankByState returns, for every category present in the state, each
// cutoff whose closing rank equals that category's maximum. Ties are all kept.
func (r *cutoffRepository) GetMaxRankByState(ctx context.Context, stateID int) ([]model.Cutoff, error) {
	query := `
		SELECT c.id, c.college_id, c.state_id, c.category, c.closing_rank
		FROM cutoffs c
		INNER JOIN (
			SELECT category, MAX(closing_rank) AS max_rank
			FROM cutoffs
			WHERE state_id = $1
			GROUP BY category
		) m ON c.category = m.category AND c.closing_rank = m.max_rank
		WHERE c.state_id = $1
		ORDER BY c.category ASC, c.college_id ASC, c.id ASC
	`
	return queryAll[model.Cutoff](ctx, r.db, query, stateID)
}

type categoryRow struct {
	Category string `mapstructure:"category"`
}

func (r *cutoffRepository) GetCategoriesByState(ctx context.Context, stateID int) ([]string, error) {
	query := `SELECT DISTINCT category FROM cutoffs WHERE state_id = $1 ORDER BY category ASC`
	rows, err := queryAll[categoryRow](ctx, r.db, query, stateID)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.Category)
	}
	return categories, nil
}
