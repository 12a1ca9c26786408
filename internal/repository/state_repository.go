package repository

import (
	"context"

	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/model"
)

type StateRepository interface {
	GetAll(ctx context.Context) ([]model.State, error)
	GetNameByID(ctx context.Context, id int) (*string, error)
}

type stateRepository struct {
	db database.Store
}

func NewStateRepository(db database.Store) StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) GetAll(ctx context.Context) ([]model.State, error) {
	query := `SELECT id, name FROM states ORDER BY name ASC, id ASC`
	return queryAll[model.State](ctx, r.db, query)
}

func (r *stateRepository) GetNameByID(ctx context.Context, id int) (*string, error) {
	query := `SELECT name FROM states WHERE id = $1`
	row, err := queryOne[nameRow](ctx, r.db, query, id)
	if err != nil || row == nil {
		return nil, err
	}
	return &row.Name, nil
}
