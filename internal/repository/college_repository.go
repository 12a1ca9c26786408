package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/model"
)

type CollegeRepository interface {
	GetAll(ctx context.Context) ([]model.College, error)
	GetByState(ctx context.Context, stateID int) ([]model.College, error)
	GetByIDs(ctx context.Context, ids []int) ([]model.College, error)
	GetNameByID(ctx context.Context, id int) (*string, error)
}

type collegeRepository struct {
	db database.Store
}

func NewCollegeRepository(db database.Store) CollegeRepository {
	return &collegeRepository{db: db}
}

func (r *collegeRepository) GetAll(ctx context.Context) ([]model.College, error) {
	query := `SELECT id, name, state_id FROM colleges ORDER BY name ASC, id ASC`
	return queryAll[model.College](ctx, r.db, query)
}

func (r *collegeRepository) GetByState(ctx context.Context, stateID int) ([]model.College, error) {
	query := `SELECT id, name, state_id FROM colleges WHERE state_id = $1 ORDER BY name ASC, id ASC`
	return queryAll[model.College](ctx, r.db, query, stateID)
}

// GetByIDs fetches the colleges with the given ids in a single round trip.
// Ids that do not exist are simply absent from the result.
func (r *collegeRepository) GetByIDs(ctx context.Context, ids []int) ([]model.College, error) {
	if len(ids) == 0 {
		return []model.College{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT id, name, state_id FROM colleges WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	return queryAll[model.College](ctx, r.db, query, args...)
}

func (r *collegeRepository) GetNameByID(ctx context.Context, id int) (*string, error) {
	query := `SELECT name FROM colleges WHERE id = $1`
	row, err := queryOne[nameRow](ctx, r.db, query, id)
	if err != nil || row == nil {
		return nil, err
	}
	return &row.Name, nil
}
