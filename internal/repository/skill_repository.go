package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const skillColumns = `id, name, category, is_active`

type skillRepository struct {
	db *sql.DB
}

func NewSkillRepository(db *sql.DB) domain.SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) FindByName(ctx context.Context, name string) (*domain.Skill, error) {
	query := `
		SELECT ` + skillColumns + `
		FROM skills
		WHERE lower(name) = lower($1)
	`
	return r.scanSkill(r.db.QueryRowContext(ctx, query, name))
}

// GetOrCreate relies on the unique index over lower(name): a concurrent insert
// of the same name hits the conflict clause and the follow-up select picks up
// whichever row won. Existing rows are never modified, so the first-seen
// casing of a name is the one the catalog keeps.
func (r *skillRepository) GetOrCreate(ctx context.Context, name string, category *string) (*domain.Skill, error) {
	skill, err := r.FindByName(ctx, name)
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	insert := `
		INSERT INTO skills (id, name, category, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (lower(name)) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, uuid.New(), name, category); err != nil {
		return nil, err
	}

	return r.FindByName(ctx, name)
}

func (r *skillRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Skill, error) {
	if len(ids) == 0 {
		return []domain.Skill{}, nil
	}

	query := `
		SELECT ` + skillColumns + `
		FROM skills
		WHERE id = ANY($1)
		ORDER BY name
	`
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(idStrings))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]domain.Skill, 0, len(ids))
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Category, &skill.IsActive); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

func (r *skillRepository) scanSkill(row *sql.Row) (*domain.Skill, error) {
	var skill domain.Skill
	err := row.Scan(
		&skill.ID,
		&skill.Name,
		&skill.Category,
		&skill.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}
