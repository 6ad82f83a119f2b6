package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/google/uuid"
)

const resumeColumns = `id, candidate_id, url, file_id, file_name, size, mime_type, is_primary, is_allow_fetch, uploaded_at`

type resumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) domain.ResumeRepository {
	return &resumeRepository{db: db}
}

// lockCandidate serializes primary-resume mutations per candidate. Every
// mutating method takes this row lock before touching resume rows, so two
// concurrent promotions cannot both observe the same starting state.
func lockCandidate(ctx context.Context, tx *sql.Tx, candidateID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM candidates WHERE id = $1 FOR UPDATE`, candidateID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCandidateNotFound
	}
	return err
}

func (r *resumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockCandidate(ctx, tx, resume.CandidateID); err != nil {
			return err
		}

		if resume.IsPrimary {
			demote := `UPDATE resumes SET is_primary = FALSE WHERE candidate_id = $1 AND is_primary = TRUE`
			if _, err := tx.ExecContext(ctx, demote, resume.CandidateID); err != nil {
				return err
			}
		} else {
			// The first resume always becomes primary so the candidate pointer
			// is never null while resumes exist.
			var hasPrimary bool
			err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM resumes WHERE candidate_id = $1 AND is_primary = TRUE)`,
				resume.CandidateID,
			).Scan(&hasPrimary)
			if err != nil {
				return err
			}
			if !hasPrimary {
				resume.IsPrimary = true
			}
		}

		insert := `
			INSERT INTO resumes (` + resumeColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, insert,
			resume.ID,
			resume.CandidateID,
			resume.URL,
			resume.FileID,
			resume.FileName,
			resume.Size,
			resume.MimeType,
			resume.IsPrimary,
			resume.IsAllowFetch,
			resume.UploadedAt,
		)
		if err != nil {
			return err
		}

		if resume.IsPrimary {
			return syncResumeURL(ctx, tx, resume.CandidateID, &resume.URL)
		}
		return nil
	})
}

func (r *resumeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE id = $1
	`
	return scanResume(r.db.QueryRowContext(ctx, query, id))
}

func (r *resumeRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE candidate_id = $1
		ORDER BY is_primary DESC, uploaded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := make([]domain.Resume, 0)
	for rows.Next() {
		resume, err := scanResumeFromRows(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *resume)
	}
	return resumes, rows.Err()
}

// SetPrimary demotes every sibling before promoting the target, all inside the
// candidate lock, so at no observable point do two resumes carry the flag.
func (r *resumeRepository) SetPrimary(ctx context.Context, candidateID, resumeID uuid.UUID) (*domain.Resume, error) {
	var promoted *domain.Resume
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockCandidate(ctx, tx, candidateID); err != nil {
			return err
		}

		resume, err := findOwnedResume(ctx, tx, candidateID, resumeID)
		if err != nil {
			return err
		}

		demote := `UPDATE resumes SET is_primary = FALSE WHERE candidate_id = $1 AND is_primary = TRUE`
		if _, err := tx.ExecContext(ctx, demote, candidateID); err != nil {
			return err
		}

		promote := `UPDATE resumes SET is_primary = TRUE WHERE id = $1`
		if _, err := tx.ExecContext(ctx, promote, resumeID); err != nil {
			return err
		}

		if err := syncResumeURL(ctx, tx, candidateID, &resume.URL); err != nil {
			return err
		}

		resume.IsPrimary = true
		promoted = resume
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

func (r *resumeRepository) SetAllowFetch(ctx context.Context, candidateID, resumeID uuid.UUID, allow bool) (*domain.Resume, error) {
	query := `
		UPDATE resumes
		SET is_allow_fetch = $1
		WHERE id = $2 AND candidate_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, allow, resumeID, candidateID)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrResumeNotFound
	}
	return r.FindByID(ctx, resumeID)
}

// Delete removes the row and, when the deleted resume was primary, re-elects
// the most recently uploaded remaining resume (clearing the candidate pointer
// when none remain). The deleted row is returned for blob cleanup.
func (r *resumeRepository) Delete(ctx context.Context, candidateID, resumeID uuid.UUID) (*domain.Resume, error) {
	var deleted *domain.Resume
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockCandidate(ctx, tx, candidateID); err != nil {
			return err
		}

		resume, err := findOwnedResume(ctx, tx, candidateID, resumeID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, resumeID); err != nil {
			return err
		}

		if resume.IsPrimary {
			if err := electNewPrimary(ctx, tx, candidateID); err != nil {
				return err
			}
		}

		deleted = resume
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func findOwnedResume(ctx context.Context, tx *sql.Tx, candidateID, resumeID uuid.UUID) (*domain.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE id = $1 AND candidate_id = $2
	`
	resume, err := scanResume(tx.QueryRowContext(ctx, query, resumeID, candidateID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResumeNotFound
	}
	return resume, err
}

func electNewPrimary(ctx context.Context, tx *sql.Tx, candidateID uuid.UUID) error {
	query := `
		SELECT id, url
		FROM resumes
		WHERE candidate_id = $1
		ORDER BY uploaded_at DESC
		LIMIT 1
	`
	var id uuid.UUID
	var url string
	err := tx.QueryRowContext(ctx, query, candidateID).Scan(&id, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return syncResumeURL(ctx, tx, candidateID, nil)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE resumes SET is_primary = TRUE WHERE id = $1`, id); err != nil {
		return err
	}
	return syncResumeURL(ctx, tx, candidateID, &url)
}

func syncResumeURL(ctx context.Context, tx *sql.Tx, candidateID uuid.UUID, url *string) error {
	query := `UPDATE candidates SET resume_url = $1, updated_at = $2 WHERE id = $3`
	_, err := tx.ExecContext(ctx, query, url, time.Now(), candidateID)
	return err
}

func scanResume(row *sql.Row) (*domain.Resume, error) {
	var resume domain.Resume
	err := row.Scan(
		&resume.ID,
		&resume.CandidateID,
		&resume.URL,
		&resume.FileID,
		&resume.FileName,
		&resume.Size,
		&resume.MimeType,
		&resume.IsPrimary,
		&resume.IsAllowFetch,
		&resume.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func scanResumeFromRows(rows *sql.Rows) (*domain.Resume, error) {
	var resume domain.Resume
	err := rows.Scan(
		&resume.ID,
		&resume.CandidateID,
		&resume.URL,
		&resume.FileID,
		&resume.FileName,
		&resume.Size,
		&resume.MimeType,
		&resume.IsPrimary,
		&resume.IsAllowFetch,
		&resume.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resume, nil
}
