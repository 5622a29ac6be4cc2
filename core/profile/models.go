package profile

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/identifier"
	"github.com/trezcool/masomo-portal/core/langflag"
)

// Profile is a student's profile.
type Profile struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	CPF       string             `json:"cpf"` // digits only
	Language  *langflag.Language `json:"language,omitempty"`
	Flag      string             `json:"flag"`
	CreatedAt time.Time          `json:"created_at"` // UTC
	UpdatedAt time.Time          `json:"updated_at"` // UTC
}

// FormattedCPF returns the CPF as XXX.XXX.XXX-XX.
func (p Profile) FormattedCPF() string {
	f, _ := identifier.Format(p.CPF)
	return f
}

// Masked returns a copy of p safe to show in listings.
func (p Profile) Masked() Profile {
	p.CPF = identifier.Mask(p.CPF)
	return p
}

func (p *Profile) resolveFlag() {
	p.Flag = langflag.Resolve(&langflag.Carrier{Language: p.Language})
}

// NewProfile contains information needed to create a new Profile.
type NewProfile struct {
	Name     string             `json:"name" validate:"required,notblank"`
	Email    string             `json:"email" validate:"omitempty,email"`
	CPF      string             `json:"cpf" validate:"required,cpf"`
	Language *langflag.Language `json:"language"`
}

func (np *NewProfile) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	np.Name = core.CleanString(np.Name)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.CPF = core.CleanString(np.CPF)

	if err := validate.Struct(np); err != nil {
		return err
	}
	np.CPF = identifier.Digits(np.CPF)
	return svc.CheckCPFUniqueness(ctx, np.CPF)
}

// UpdateProfile defines what information may be provided to modify an existing Profile.
// Empty fields are left unchanged.
type UpdateProfile struct {
	Name     string             `json:"name"`
	Email    string             `json:"email" validate:"omitempty,email"`
	CPF      string             `json:"cpf" validate:"omitempty,cpf"`
	Language *langflag.Language `json:"language"`
}

func (up *UpdateProfile) Validate(ctx context.Context, orig Profile, validate *validator.Validate, svc *Service) error {
	if name := core.CleanString(up.Name); name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	if email := core.CleanString(up.Email, true /* lower */); email != "" {
		up.Email = email
	} else {
		up.Email = orig.Email
	}
	up.CPF = core.CleanString(up.CPF)

	if err := validate.Struct(up); err != nil {
		return err
	}
	if up.CPF == "" {
		up.CPF = orig.CPF
		return nil
	}
	up.CPF = identifier.Digits(up.CPF)
	return svc.CheckCPFUniqueness(ctx, up.CPF, orig)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
