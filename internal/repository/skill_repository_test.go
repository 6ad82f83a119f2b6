package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSkillFindByNameIsCaseInsensitive(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSkillRepository(db)
	skillID := uuid.New()

	mock.ExpectQuery(`WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "is_active"}).
			AddRow(skillID, "Go", nil, true))

	skill, err := repo.FindByName(context.Background(), "go")
	assert.NoError(t, err)
	assert.Equal(t, skillID, skill.ID)
	// First-seen casing is what the catalog keeps.
	assert.Equal(t, "Go", skill.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSkillGetOrCreateExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSkillRepository(db)
	skillID := uuid.New()

	mock.ExpectQuery(`WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("Go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "is_active"}).
			AddRow(skillID, "Go", nil, true))

	skill, err := repo.GetOrCreate(context.Background(), "Go", nil)
	assert.NoError(t, err)
	assert.Equal(t, skillID, skill.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSkillGetOrCreateInsertsThenReselects(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSkillRepository(db)
	skillID := uuid.New()

	mock.ExpectQuery(`WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("Rust").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "is_active"}))
	mock.ExpectExec(`(?s)INSERT INTO skills.+ON CONFLICT \(lower\(name\)\) DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), "Rust", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The follow-up select picks up whichever row won the race.
	mock.ExpectQuery(`WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("Rust").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "is_active"}).
			AddRow(skillID, "Rust", nil, true))

	skill, err := repo.GetOrCreate(context.Background(), "Rust", nil)
	assert.NoError(t, err)
	assert.Equal(t, skillID, skill.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
