// Package profile manages student profiles.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/identifier"
)

var (
	// errors
	ErrNotFound  = errors.New("profile not found")
	ErrCPFExists = errors.New("a profile with this CPF already exists")
)

type (
	Repository interface {
		// CheckCPFUniqueness returns ErrCPFExists if a profile other than excluded ones uses cpf.
		CheckCPFUniqueness(ctx context.Context, cpf string, excluded ...Profile) error
		CreateProfile(ctx context.Context, p Profile) (Profile, error)
		GetProfile(ctx context.Context, id string) (Profile, error)
		// QueryProfiles does a case-insensitive match of QueryFilter.Search on Profile.Name or Profile.Email.
		QueryProfiles(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Profile, error)
		UpdateProfile(ctx context.Context, p Profile) (Profile, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

// OrderingFields are the fields QueryProfiles can order by.
var OrderingFields = map[string]bool{
	"name":       true,
	"email":      true,
	"created_at": true,
	"updated_at": true,
}

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (svc *Service) CheckCPFUniqueness(ctx context.Context, cpf string, excluded ...Profile) error {
	return cpfFieldError(svc.repo.CheckCPFUniqueness(ctx, cpf, excluded...))
}

// cpfFieldError reports ErrCPFExists as a validation error on the "cpf" field.
func cpfFieldError(err error) error {
	if err == ErrCPFExists {
		return core.NewValidationError(err, core.FieldError{Field: "cpf", Error: err.Error()})
	}
	return err
}

func (svc *Service) Create(ctx context.Context, np NewProfile) (Profile, error) {
	now := time.Now().UTC()
	p := Profile{
		ID:        uuid.New().String(),
		Name:      np.Name,
		Email:     np.Email,
		CPF:       identifier.Digits(np.CPF),
		Language:  np.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}

	p, err := svc.repo.CreateProfile(ctx, p)
	if err != nil {
		return Profile{}, cpfFieldError(err)
	}
	p.resolveFlag()
	svc.logger.Info("profile created", map[string]interface{}{"cpf": p.Masked().CPF}, p)
	return p, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Profile{}, ErrNotFound
	}
	p, err := svc.repo.GetProfile(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	p.resolveFlag()
	return p, nil
}

// Query returns the profiles matching filter. Unknown ordering fields are ignored.
func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Profile, error) {
	valid := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if OrderingFields[ord.Field] {
			valid = append(valid, ord)
		}
	}
	profiles, err := svc.repo.QueryProfiles(ctx, filter, valid...)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].resolveFlag()
	}
	return profiles, nil
}

func (svc *Service) Update(ctx context.Context, orig Profile, up UpdateProfile) (Profile, error) {
	p := orig
	if up.Name != "" {
		p.Name = up.Name
	}
	if up.Email != "" {
		p.Email = up.Email
	}
	if up.CPF != "" {
		p.CPF = identifier.Digits(up.CPF)
	}
	if up.Language != nil {
		p.Language = up.Language
	}
	p.UpdatedAt = time.Now().UTC()

	p, err := svc.repo.UpdateProfile(ctx, p)
	if err != nil {
		return Profile{}, cpfFieldError(err)
	}
	p.resolveFlag()
	return p, nil
}
