package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/langflag"
	"github.com/trezcool/masomo-portal/core/profile"
)

// columns that can be used in ORDER BY
var orderingColumns = map[string]string{
	"name":       "lower(name)",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type profileRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	CPF       string         `db:"cpf"`
	Language  sql.NullString `db:"language"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func toRow(p profile.Profile) (profileRow, error) {
	row := profileRow{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		CPF:       p.CPF,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
	if p.Language != nil {
		b, err := json.Marshal(p.Language)
		if err != nil {
			return profileRow{}, errors.Wrap(err, "marshalling language")
		}
		row.Language = sql.NullString{String: string(b), Valid: true}
	}
	return row, nil
}

func (row profileRow) toProfile() (profile.Profile, error) {
	p := profile.Profile{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		CPF:       row.CPF,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if row.Language.Valid {
		p.Language = new(langflag.Language)
		if err := json.Unmarshal([]byte(row.Language.String), p.Language); err != nil {
			return profile.Profile{}, errors.Wrap(err, "unmarshalling language")
		}
	}
	return p, nil
}

func (repo *profileRepository) CheckCPFUniqueness(ctx context.Context, cpf string, excluded ...profile.Profile) error {
	ids := make([]string, 0, len(excluded))
	for _, p := range excluded {
		ids = append(ids, p.ID)
	}

	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM profile WHERE cpf = $1 AND NOT (id::text = ANY($2)))`
	if err := repo.db.GetContext(ctx, &exists, q, cpf, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "checking cpf uniqueness")
	}
	if exists {
		return profile.ErrCPFExists
	}
	return nil
}

func (repo *profileRepository) CreateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	row, err := toRow(p)
	if err != nil {
		return profile.Profile{}, err
	}
	q := `INSERT INTO profile (id, name, email, cpf, language, created_at, updated_at)
		VALUES (:id, :name, :email, :cpf, :language, :created_at, :updated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return profile.Profile{}, profile.ErrCPFExists
		}
		return profile.Profile{}, errors.Wrap(err, "inserting profile")
	}
	return p, nil
}

func (repo *profileRepository) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	var row profileRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM profile WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Wrap(err, "selecting profile")
	}
	return row.toProfile()
}

func (repo *profileRepository) QueryProfiles(
	ctx context.Context,
	filter profile.QueryFilter,
	ordering ...core.DBOrdering,
) ([]profile.Profile, error) {
	var (
		q    strings.Builder
		args []interface{}
	)
	q.WriteString(`SELECT * FROM profile`)
	if filter.Search != "" {
		q.WriteString(` WHERE name ILIKE $1 OR email ILIKE $1`)
		args = append(args, "%"+filter.Search+"%")
	}
	q.WriteString(` ORDER BY ` + orderBy(ordering))

	var rows []profileRow
	if err := repo.db.SelectContext(ctx, &rows, q.String(), args...); err != nil {
		return nil, errors.Wrap(err, "selecting profiles")
	}
	profiles := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (repo *profileRepository) UpdateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	row, err := toRow(p)
	if err != nil {
		return profile.Profile{}, err
	}
	q := `UPDATE profile SET name = :name, email = :email, cpf = :cpf, language = :language, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		if isUniqueViolation(err) {
			return profile.Profile{}, profile.ErrCPFExists
		}
		return profile.Profile{}, errors.Wrap(err, "updating profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return profile.Profile{}, profile.ErrNotFound
	}
	return repo.GetProfile(ctx, p.ID)
}

// orderBy builds the ORDER BY clause; unknown fields are skipped.
func orderBy(ordering []core.DBOrdering) string {
	clauses := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if col, ok := orderingColumns[ord.Field]; ok {
			clauses = append(clauses, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(clauses) == 0 {
		clauses = append(clauses, "created_at DESC")
	}
	clauses = append(clauses, "id ASC")
	return strings.Join(clauses, ", ")
}

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == "23505"
}
