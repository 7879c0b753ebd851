package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devconnect/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// profileRow is the flat scan target for profiles joined with their user.
// The public model nests social links and the user summary, so queries land
// here first and get assembled.
type profileRow struct {
	ID             int64          `db:"id"`
	UserID         int64          `db:"user_id"`
	Handle         string         `db:"handle"`
	Company        *string        `db:"company"`
	Website        *string        `db:"website"`
	Location       *string        `db:"location"`
	Bio            *string        `db:"bio"`
	Status         string         `db:"status"`
	GithubUsername *string        `db:"github_username"`
	Skills         pq.StringArray `db:"skills"`
	Youtube        *string        `db:"youtube"`
	Twitter        *string        `db:"twitter"`
	Facebook       *string        `db:"facebook"`
	Linkedin       *string        `db:"linkedin"`
	Instagram      *string        `db:"instagram"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	UserName       string         `db:"user_name"`
	UserAvatar     *string        `db:"user_avatar"`
}

func (row *profileRow) toProfile() *model.Profile {
	return &model.Profile{
		ID:             row.ID,
		UserID:         row.UserID,
		Handle:         row.Handle,
		Company:        row.Company,
		Website:        row.Website,
		Location:       row.Location,
		Bio:            row.Bio,
		Status:         row.Status,
		GithubUsername: row.GithubUsername,
		Skills:         row.Skills,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		Social: model.Social{
			Youtube:   row.Youtube,
			Twitter:   row.Twitter,
			Facebook:  row.Facebook,
			Linkedin:  row.Linkedin,
			Instagram: row.Instagram,
		},
		User: &model.UserSummary{
			ID:     row.UserID,
			Name:   row.UserName,
			Avatar: row.UserAvatar,
		},
	}
}

const profileSelect = `
	SELECT p.id, p.user_id, p.handle, p.company, p.website, p.location, p.bio,
	       p.status, p.github_username, p.skills,
	       p.youtube, p.twitter, p.facebook, p.linkedin, p.instagram,
	       p.created_at, p.updated_at,
	       u.name AS user_name, u.avatar_url AS user_avatar
	FROM profiles p
	JOIN users u ON u.id = p.user_id
`

// GetByUserID retrieves the full profile for a user.
func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, profileSelect+`WHERE p.user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by user: %w", err)
	}

	return r.hydrate(ctx, row.toProfile())
}

// GetByHandle retrieves the full profile owning a handle.
func (r *profileRepository) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, profileSelect+`WHERE p.handle = $1`, handle)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by handle: %w", err)
	}

	return r.hydrate(ctx, row.toProfile())
}

// GetAll returns profiles newest-first. skip < 0 is treated as 0;
// limit <= 0 means no cap.
func (r *profileRepository) GetAll(ctx context.Context, skip, limit int) ([]model.Profile, error) {
	if skip < 0 {
		skip = 0
	}

	query := profileSelect + `ORDER BY p.created_at DESC, p.id DESC OFFSET $1`
	args := []interface{}{skip}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]model.Profile, 0, len(rows))
	profileIDs := make([]int64, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, *rows[i].toProfile())
		profileIDs = append(profileIDs, rows[i].ID)
	}

	expMap, eduMap, err := r.getSubRecords(ctx, profileIDs)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].Experience = orEmptyExp(expMap[profiles[i].ID])
		profiles[i].Education = orEmptyEdu(eduMap[profiles[i].ID])
	}

	return profiles, nil
}

// HandleOwner returns the user id that owns a handle.
func (r *profileRepository) HandleOwner(ctx context.Context, handle string) (int64, error) {
	var userID int64
	err := r.db.GetContext(ctx, &userID, `SELECT user_id FROM profiles WHERE handle = $1`, handle)
	if err == sql.ErrNoRows {
		return 0, model.ErrProfileNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get handle owner: %w", err)
	}
	return userID, nil
}

// Create inserts a new profile for p.UserID.
func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (user_id, handle, company, website, location, bio, status,
		                      github_username, skills,
		                      youtube, twitter, facebook, linkedin, instagram,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.UserID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status,
		p.GithubUsername, p.Skills,
		p.Social.Youtube, p.Social.Twitter, p.Social.Facebook, p.Social.Linkedin, p.Social.Instagram,
	)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

// Update overwrites all editable fields of the caller's profile.
func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles
		SET handle = $1, company = $2, website = $3, location = $4, bio = $5,
		    status = $6, github_username = $7, skills = $8,
		    youtube = $9, twitter = $10, facebook = $11, linkedin = $12, instagram = $13,
		    updated_at = NOW()
		WHERE user_id = $14
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.Handle, p.Company, p.Website, p.Location, p.Bio,
		p.Status, p.GithubUsername, p.Skills,
		p.Social.Youtube, p.Social.Twitter, p.Social.Facebook, p.Social.Linkedin, p.Social.Instagram,
		p.UserID,
	)

	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

// Delete removes a user's profile; sub-records cascade. A missing profile
// is not an error.
func (r *profileRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// AddExperience inserts a work-history entry.
func (r *profileRepository) AddExperience(ctx context.Context, exp *model.Experience) error {
	query := `
		INSERT INTO experiences (id, profile_id, title, company, location, from_date, to_date, current, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		exp.ID, exp.ProfileID, exp.Title, exp.Company, exp.Location,
		exp.From, exp.To, exp.Current, exp.Description,
	)

	if err := row.Scan(&exp.CreatedAt); err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}

	return nil
}

// RemoveExperience deletes one entry by id, scoped to the owning profile.
func (r *profileRepository) RemoveExperience(ctx context.Context, profileID int64, expID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM experiences WHERE id = $1 AND profile_id = $2`, expID, profileID)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrExperienceNotFound
	}

	return nil
}

// AddEducation inserts a schooling entry.
func (r *profileRepository) AddEducation(ctx context.Context, edu *model.Education) error {
	query := `
		INSERT INTO educations (id, profile_id, school, degree, field_of_study, from_date, to_date, current, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		edu.ID, edu.ProfileID, edu.School, edu.Degree, edu.FieldOfStudy,
		edu.From, edu.To, edu.Current, edu.Description,
	)

	if err := row.Scan(&edu.CreatedAt); err != nil {
		return fmt.Errorf("insert education: %w", err)
	}

	return nil
}

// RemoveEducation deletes one entry by id, scoped to the owning profile.
func (r *profileRepository) RemoveEducation(ctx context.Context, profileID int64, eduID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM educations WHERE id = $1 AND profile_id = $2`, eduID, profileID)
	if err != nil {
		return fmt.Errorf("delete education: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrEducationNotFound
	}

	return nil
}

// hydrate attaches sub-records to a single profile.
func (r *profileRepository) hydrate(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	expMap, eduMap, err := r.getSubRecords(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.Experience = orEmptyExp(expMap[p.ID])
	p.Education = orEmptyEdu(eduMap[p.ID])
	return p, nil
}

// getSubRecords batch-fetches experience and education for many profiles,
// newest-first within each profile.
func (r *profileRepository) getSubRecords(ctx context.Context, profileIDs []int64) (map[int64][]model.Experience, map[int64][]model.Education, error) {
	expMap := make(map[int64][]model.Experience)
	eduMap := make(map[int64][]model.Education)
	if len(profileIDs) == 0 {
		return expMap, eduMap, nil
	}

	var exps []model.Experience
	err := r.db.SelectContext(ctx, &exps, `
		SELECT id, profile_id, title, company, location, from_date, to_date, current, description, created_at
		FROM experiences
		WHERE profile_id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`, pq.Array(profileIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("get experiences: %w", err)
	}
	for _, e := range exps {
		expMap[e.ProfileID] = append(expMap[e.ProfileID], e)
	}

	var edus []model.Education
	err = r.db.SelectContext(ctx, &edus, `
		SELECT id, profile_id, school, degree, field_of_study, from_date, to_date, current, description, created_at
		FROM educations
		WHERE profile_id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`, pq.Array(profileIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("get educations: %w", err)
	}
	for _, e := range edus {
		eduMap[e.ProfileID] = append(eduMap[e.ProfileID], e)
	}

	return expMap, eduMap, nil
}

// Empty slices rather than nil so the JSON renders [] like the legacy API.
func orEmptyExp(s []model.Experience) []model.Experience {
	if s == nil {
		return []model.Experience{}
	}
	return s
}

func orEmptyEdu(s []model.Education) []model.Education {
	if s == nil {
		return []model.Education{}
	}
	return s
}
