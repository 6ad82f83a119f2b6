package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const candidateColumns = `
	id, user_id, first_name, last_name, title, phone, location, summary,
	experience_level, expected_salary, total_years_experience,
	profile_completion_percentage, completed_profile, resume_url,
	approval_status, created_at, updated_at
`

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

// CreateProfile writes the candidate and all dependent collections as a single
// transaction. A failed insert anywhere leaves nothing behind.
func (r *candidateRepository) CreateProfile(ctx context.Context, profile *domain.CandidateProfile) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertCandidate(ctx, tx, &profile.Candidate); err != nil {
			return err
		}
		for i := range profile.WorkExperiences {
			if err := insertWorkExperience(ctx, tx, &profile.WorkExperiences[i]); err != nil {
				return err
			}
		}
		for i := range profile.Educations {
			if err := insertEducation(ctx, tx, &profile.Educations[i]); err != nil {
				return err
			}
		}
		for i := range profile.Projects {
			if err := insertProject(ctx, tx, &profile.Projects[i]); err != nil {
				return err
			}
		}
		for i := range profile.Certificates {
			if err := insertCertificate(ctx, tx, &profile.Certificates[i]); err != nil {
				return err
			}
		}
		for i := range profile.Awards {
			if err := insertAward(ctx, tx, &profile.Awards[i]); err != nil {
				return err
			}
		}
		for i := range profile.Volunteerings {
			if err := insertVolunteering(ctx, tx, &profile.Volunteerings[i]); err != nil {
				return err
			}
		}
		for i := range profile.CandidateSkills {
			if err := insertCandidateSkill(ctx, tx, &profile.CandidateSkills[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertCandidate(ctx context.Context, tx *sql.Tx, c *domain.Candidate) error {
	query := `
		INSERT INTO candidates (
			id, user_id, first_name, last_name, title, phone, location, summary,
			experience_level, expected_salary, total_years_experience,
			profile_completion_percentage, completed_profile, resume_url,
			approval_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := tx.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.FirstName,
		c.LastName,
		c.Title,
		c.Phone,
		c.Location,
		c.Summary,
		c.ExperienceLevel,
		c.ExpectedSalary,
		c.TotalYearsExperience,
		c.CompletionPercentage,
		c.CompletedProfile,
		c.ResumeURL,
		c.ApprovalStatus,
		c.CreatedAt,
		c.UpdatedAt,
	)
	// Two submissions racing past the exists-check settle here: the loser's
	// insert trips the user_id constraint and surfaces as a duplicate profile.
	if isUniqueViolation(err, "candidates_user_id_key") {
		return domain.ErrProfileAlreadyExists
	}
	return err
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}

func insertWorkExperience(ctx context.Context, tx *sql.Tx, w *domain.WorkExperience) error {
	query := `
		INSERT INTO work_experiences (
			id, candidate_id, company, position, employment_type, location,
			start_date, end_date, is_current, description, skill_ids
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := tx.ExecContext(ctx, query,
		w.ID, w.CandidateID, w.Company, w.Position, w.EmploymentType,
		w.Location, w.StartDate, w.EndDate, w.IsCurrent, w.Description,
		pq.Array(uuidStrings(w.SkillIDs)),
	)
	return err
}

func insertEducation(ctx context.Context, tx *sql.Tx, e *domain.Education) error {
	query := `
		INSERT INTO educations (
			id, candidate_id, institution, degree, field_of_study,
			start_date, end_date, gpa, skill_ids
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		e.ID, e.CandidateID, e.Institution, e.Degree, e.FieldOfStudy,
		e.StartDate, e.EndDate, e.GPA,
		pq.Array(uuidStrings(e.SkillIDs)),
	)
	return err
}

func insertProject(ctx context.Context, tx *sql.Tx, p *domain.Project) error {
	query := `
		INSERT INTO projects (
			id, candidate_id, name, description, url, start_date, end_date, skill_ids
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		p.ID, p.CandidateID, p.Name, p.Description, p.URL,
		p.StartDate, p.EndDate,
		pq.Array(uuidStrings(p.SkillIDs)),
	)
	return err
}

func insertCertificate(ctx context.Context, tx *sql.Tx, c *domain.Certificate) error {
	query := `
		INSERT INTO certificates (
			id, candidate_id, name, issuer, issue_date, expiry_date,
			credential_url, skill_ids
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		c.ID, c.CandidateID, c.Name, c.Issuer, c.IssueDate, c.ExpiryDate,
		c.CredentialURL,
		pq.Array(uuidStrings(c.SkillIDs)),
	)
	return err
}

func insertAward(ctx context.Context, tx *sql.Tx, a *domain.Award) error {
	query := `
		INSERT INTO awards (
			id, candidate_id, title, issuer, date, description
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		a.ID, a.CandidateID, a.Title, a.Issuer, a.Date, a.Description,
	)
	return err
}

func insertVolunteering(ctx context.Context, tx *sql.Tx, v *domain.Volunteering) error {
	query := `
		INSERT INTO volunteerings (
			id, candidate_id, organization, position, start_date, end_date, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		v.ID, v.CandidateID, v.Organization, v.Position, v.StartDate,
		v.EndDate, v.Description,
	)
	return err
}

func insertCandidateSkill(ctx context.Context, tx *sql.Tx, s *domain.CandidateSkill) error {
	query := `
		INSERT INTO candidate_skills (
			id, candidate_id, skill_id, proficiency, years_experience,
			skill_source, source_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		s.ID, s.CandidateID, s.SkillID, s.Proficiency, s.YearsExperience,
		s.SkillSource, s.SourceType,
	)
	return err
}

func (r *candidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		WHERE id = $1
	`
	return scanCandidate(r.db.QueryRowContext(ctx, query, id))
}

func (r *candidateRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		WHERE user_id = $1
	`
	return scanCandidate(r.db.QueryRowContext(ctx, query, userID))
}

func (r *candidateRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.CandidateProfile, error) {
	candidate, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.CandidateProfile{Candidate: *candidate}
	id := candidate.ID

	if profile.WorkExperiences, err = r.listWorkExperiences(ctx, id); err != nil {
		return nil, err
	}
	if profile.Educations, err = r.listEducations(ctx, id); err != nil {
		return nil, err
	}
	if profile.Projects, err = r.listProjects(ctx, id); err != nil {
		return nil, err
	}
	if profile.Certificates, err = r.listCertificates(ctx, id); err != nil {
		return nil, err
	}
	if profile.Awards, err = r.listAwards(ctx, id); err != nil {
		return nil, err
	}
	if profile.Volunteerings, err = r.listVolunteerings(ctx, id); err != nil {
		return nil, err
	}
	if profile.CandidateSkills, err = r.listCandidateSkills(ctx, id); err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *candidateRepository) Update(ctx context.Context, c *domain.Candidate) error {
	query := `
		UPDATE candidates
		SET first_name = $1, last_name = $2, title = $3, phone = $4,
			location = $5, summary = $6, experience_level = $7,
			expected_salary = $8, updated_at = $9
		WHERE id = $10
	`
	c.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Title, c.Phone, c.Location, c.Summary,
		c.ExperienceLevel, c.ExpectedSalary, c.UpdatedAt, c.ID,
	)
	return err
}

func (r *candidateRepository) GetApprovalStatus(ctx context.Context, candidateID uuid.UUID) (domain.ApprovalStatus, error) {
	query := `SELECT approval_status FROM candidates WHERE id = $1`
	var status domain.ApprovalStatus
	err := r.db.QueryRowContext(ctx, query, candidateID).Scan(&status)
	return status, err
}

func (r *candidateRepository) UpdateApprovalStatus(ctx context.Context, candidateID uuid.UUID, status domain.ApprovalStatus) error {
	query := `
		UPDATE candidates
		SET approval_status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), candidateID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func (r *candidateRepository) listWorkExperiences(ctx context.Context, candidateID uuid.UUID) ([]domain.WorkExperience, error) {
	query := `
		SELECT id, candidate_id, company, position, employment_type, location,
			start_date, end_date, is_current, description, skill_ids
		FROM work_experiences
		WHERE candidate_id = $1
		ORDER BY start_date DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.WorkExperience, 0)
	for rows.Next() {
		var w domain.WorkExperience
		var skillIDs []string
		err := rows.Scan(
			&w.ID, &w.CandidateID, &w.Company, &w.Position, &w.EmploymentType,
			&w.Location, &w.StartDate, &w.EndDate, &w.IsCurrent, &w.Description,
			pq.Array(&skillIDs),
		)
		if err != nil {
			return nil, err
		}
		if w.SkillIDs, err = parseUUIDs(skillIDs); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

func (r *candidateRepository) listEducations(ctx context.Context, candidateID uuid.UUID) ([]domain.Education, error) {
	query := `
		SELECT id, candidate_id, institution, degree, field_of_study,
			start_date, end_date, gpa, skill_ids
		FROM educations
		WHERE candidate_id = $1
		ORDER BY start_date DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Education, 0)
	for rows.Next() {
		var e domain.Education
		var skillIDs []string
		err := rows.Scan(
			&e.ID, &e.CandidateID, &e.Institution, &e.Degree, &e.FieldOfStudy,
			&e.StartDate, &e.EndDate, &e.GPA,
			pq.Array(&skillIDs),
		)
		if err != nil {
			return nil, err
		}
		if e.SkillIDs, err = parseUUIDs(skillIDs); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *candidateRepository) listProjects(ctx context.Context, candidateID uuid.UUID) ([]domain.Project, error) {
	query := `
		SELECT id, candidate_id, name, description, url, start_date, end_date, skill_ids
		FROM projects
		WHERE candidate_id = $1
		ORDER BY start_date DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Project, 0)
	for rows.Next() {
		var p domain.Project
		var skillIDs []string
		err := rows.Scan(
			&p.ID, &p.CandidateID, &p.Name, &p.Description, &p.URL,
			&p.StartDate, &p.EndDate,
			pq.Array(&skillIDs),
		)
		if err != nil {
			return nil, err
		}
		if p.SkillIDs, err = parseUUIDs(skillIDs); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *candidateRepository) listCertificates(ctx context.Context, candidateID uuid.UUID) ([]domain.Certificate, error) {
	query := `
		SELECT id, candidate_id, name, issuer, issue_date, expiry_date,
			credential_url, skill_ids
		FROM certificates
		WHERE candidate_id = $1
		ORDER BY issue_date DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Certificate, 0)
	for rows.Next() {
		var c domain.Certificate
		var skillIDs []string
		err := rows.Scan(
			&c.ID, &c.CandidateID, &c.Name, &c.Issuer, &c.IssueDate,
			&c.ExpiryDate, &c.CredentialURL,
			pq.Array(&skillIDs),
		)
		if err != nil {
			return nil, err
		}
		if c.SkillIDs, err = parseUUIDs(skillIDs); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *candidateRepository) listAwards(ctx context.Context, candidateID uuid.UUID) ([]domain.Award, error) {
	query := `
		SELECT id, candidate_id, title, issuer, date, description
		FROM awards
		WHERE candidate_id = $1
		ORDER BY date DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Award, 0)
	for rows.Next() {
		var a domain.Award
		err := rows.Scan(&a.ID, &a.CandidateID, &a.Title, &a.Issuer, &a.Date, &a.Description)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *candidateRepository) listVolunteerings(ctx context.Context, candidateID uuid.UUID) ([]domain.Volunteering, error) {
	query := `
		SELECT id, candidate_id, organization, position, start_date, end_date, description
		FROM volunteerings
		WHERE candidate_id = $1
		ORDER BY start_date DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Volunteering, 0)
	for rows.Next() {
		var v domain.Volunteering
		err := rows.Scan(&v.ID, &v.CandidateID, &v.Organization, &v.Position, &v.StartDate, &v.EndDate, &v.Description)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *candidateRepository) listCandidateSkills(ctx context.Context, candidateID uuid.UUID) ([]domain.CandidateSkill, error) {
	query := `
		SELECT id, candidate_id, skill_id, proficiency, years_experience,
			skill_source, source_type
		FROM candidate_skills
		WHERE candidate_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CandidateSkill, 0)
	for rows.Next() {
		var s domain.CandidateSkill
		err := rows.Scan(
			&s.ID, &s.CandidateID, &s.SkillID, &s.Proficiency,
			&s.YearsExperience, &s.SkillSource, &s.SourceType,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func scanCandidate(row *sql.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FirstName,
		&c.LastName,
		&c.Title,
		&c.Phone,
		&c.Location,
		&c.Summary,
		&c.ExperienceLevel,
		&c.ExpectedSalary,
		&c.TotalYearsExperience,
		&c.CompletionPercentage,
		&c.CompletedProfile,
		&c.ResumeURL,
		&c.ApprovalStatus,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
