package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/langflag"
	"github.com/trezcool/masomo-portal/core/profile"
)

var profileColumns = []string{"id", "name", "email", "cpf", "language", "created_at", "updated_at"}

func setup(t *testing.T) (profile.Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewProfileRepository(sqlx.NewDb(db, "postgres")), mock
}

func quoted(q string) string {
	return regexp.QuoteMeta(q)
}

func TestProfileRepository_CheckCPFUniqueness(t *testing.T) {
	q := quoted(`SELECT EXISTS (SELECT 1 FROM profile WHERE cpf = $1 AND NOT (id::text = ANY($2)))`)
	ctx := context.Background()

	tests := []struct {
		name     string
		excluded []profile.Profile
		wantIDs  string
		exists   bool
		wantErr  error
	}{
		{name: "free", wantIDs: "{}"},
		{name: "taken", wantIDs: "{}", exists: true, wantErr: profile.ErrCPFExists},
		{name: "excluded", excluded: []profile.Profile{{ID: "p1"}, {ID: "p2"}}, wantIDs: `{"p1","p2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery(q).
				WithArgs("52998224725", tt.wantIDs).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			assert.Equal(t, tt.wantErr, repo.CheckCPFUniqueness(ctx, "52998224725", tt.excluded...))
		})
	}

	t.Run("db error", func(t *testing.T) {
		repo, mock := setup(t)
		boom := errors.New("boom")
		mock.ExpectQuery(q).WillReturnError(boom)

		err := repo.CheckCPFUniqueness(ctx, "52998224725")
		assert.Equal(t, boom, errors.Cause(err))
	})
}

func TestProfileRepository_CreateProfile(t *testing.T) {
	q := quoted(`INSERT INTO profile (id, name, email, cpf, language, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	ctx := context.Background()
	p := profile.Profile{
		ID:        "0b6c3f5e-5a52-4a4b-9a7e-0f6d9b0c2b11",
		Name:      "Ana",
		Email:     "ana@test.br",
		CPF:       "52998224725",
		CreatedAt: time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	boom := errors.New("boom")

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "inserted"},
		{name: "unique violation", execErr: &pq.Error{Code: "23505"}, wantErr: profile.ErrCPFExists},
		{name: "other error", execErr: boom, wantErr: boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setup(t)
			exec := mock.ExpectExec(q).WithArgs(p.ID, p.Name, p.Email, p.CPF, nil, p.CreatedAt, p.UpdatedAt)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			got, err := repo.CreateProfile(ctx, p)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestProfileRepository_GetProfile(t *testing.T) {
	q := quoted(`SELECT * FROM profile WHERE id = $1`)
	ctx := context.Background()
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectQuery(q).WithArgs("p1").WillReturnRows(
			sqlmock.NewRows(profileColumns).AddRow("p1", "Ana", "ana@test.br", "52998224725", []byte(`{"code":"br"}`), now, now),
		)

		got, err := repo.GetProfile(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, profile.Profile{
			ID:        "p1",
			Name:      "Ana",
			Email:     "ana@test.br",
			CPF:       "52998224725",
			Language:  &langflag.Language{Code: "br"},
			CreatedAt: now,
			UpdatedAt: now,
		}, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectQuery(q).WithArgs("p2").WillReturnRows(sqlmock.NewRows(profileColumns))

		_, err := repo.GetProfile(ctx, "p2")
		assert.Equal(t, profile.ErrNotFound, err)
	})
}

func TestProfileRepository_QueryProfiles(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows(profileColumns).
			AddRow("p1", "Ana", "ana@test.br", "52998224725", nil, now, now).
			AddRow("p2", "Bia", "bia@test.br", "11144477735", nil, now, now)
	}

	t.Run("search", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectQuery(quoted(`SELECT * FROM profile WHERE name ILIKE $1 OR email ILIKE $1 ORDER BY lower(name) ASC, id ASC`)).
			WithArgs("%test.br%").
			WillReturnRows(rows())

		ps, err := repo.QueryProfiles(ctx, profile.QueryFilter{Search: "test.br"}, core.DBOrdering{Field: "name", Ascending: true})
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, "p1", ps[0].ID)
		assert.Nil(t, ps[0].Language)
	})

	t.Run("default ordering", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectQuery(quoted(`SELECT * FROM profile ORDER BY created_at DESC, id ASC`)).
			WithArgs().
			WillReturnRows(sqlmock.NewRows(profileColumns))

		ps, err := repo.QueryProfiles(ctx, profile.QueryFilter{})
		require.NoError(t, err)
		assert.Empty(t, ps)
	})
}

func TestProfileRepository_UpdateProfile(t *testing.T) {
	q := quoted(`UPDATE profile SET name = $1, email = $2, cpf = $3, language = $4, updated_at = $5 WHERE id = $6`)
	ctx := context.Background()
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	p := profile.Profile{ID: "p1", Name: "Ana S.", Email: "ana@test.br", CPF: "52998224725", CreatedAt: now, UpdatedAt: now.Add(time.Hour)}

	t.Run("updated", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectExec(q).
			WithArgs(p.Name, p.Email, p.CPF, nil, p.UpdatedAt, p.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(quoted(`SELECT * FROM profile WHERE id = $1`)).WithArgs(p.ID).WillReturnRows(
			sqlmock.NewRows(profileColumns).AddRow(p.ID, p.Name, p.Email, p.CPF, nil, p.CreatedAt, p.UpdatedAt),
		)

		got, err := repo.UpdateProfile(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.UpdateProfile(ctx, p)
		assert.Equal(t, profile.ErrNotFound, err)
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectExec(q).WillReturnError(&pq.Error{Code: "23505", Constraint: "profile_cpf_key"})

		_, err := repo.UpdateProfile(ctx, p)
		assert.Equal(t, profile.ErrCPFExists, err)
	})
}

func Test_isUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.Wrap(&pq.Error{Code: "23505"}, "inserting")))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
	assert.False(t, isUniqueViolation(nil))
}
