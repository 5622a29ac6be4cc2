package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/profile"
)

type profileRepository struct {
	db *profileTable
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) query() []profile.Profile {
	profiles := make([]profile.Profile, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		profiles = append(profiles, *p)
	}
	return profiles
}

func (repo *profileRepository) CheckCPFUniqueness(_ context.Context, cpf string, excluded ...profile.Profile) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, p := range repo.db.table {
		if p.CPF == cpf && !isExcluded(*p, excluded) {
			return profile.ErrCPFExists
		}
	}
	return nil
}

func (repo *profileRepository) CreateProfile(_ context.Context, p profile.Profile) (profile.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.cpfTaken(p.CPF, p.ID) {
		return profile.Profile{}, profile.ErrCPFExists
	}
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *profileRepository) GetProfile(_ context.Context, id string) (profile.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) QueryProfiles(
	_ context.Context,
	filter profile.QueryFilter,
	ordering ...core.DBOrdering,
) ([]profile.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	profiles := make([]profile.Profile, 0, len(repo.db.table))
	for _, p := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}
		profiles = append(profiles, p)
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at", Ascending: false}}
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		for _, ord := range ordering {
			if cmp := compare(profiles[i], profiles[j], ord.Field); cmp != 0 {
				if ord.Ascending {
					return cmp < 0
				}
				return cmp > 0
			}
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles, nil
}

func (repo *profileRepository) UpdateProfile(_ context.Context, p profile.Profile) (profile.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[p.ID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	if repo.cpfTaken(p.CPF, p.ID) {
		return profile.Profile{}, profile.ErrCPFExists
	}
	p.CreatedAt = orig.CreatedAt
	repo.db.table[p.ID] = &p
	return p, nil
}

// cpfTaken reports whether a profile other than id holds cpf. The caller must hold the lock.
func (repo *profileRepository) cpfTaken(cpf, id string) bool {
	for _, p := range repo.db.table {
		if p.CPF == cpf && p.ID != id {
			return true
		}
	}
	return false
}

func compare(a, b profile.Profile, field string) int {
	switch field {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "created_at":
		return compareTime(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareTime(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	}
	return 0
}

func compareTime(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isExcluded(p profile.Profile, excluded []profile.Profile) bool {
	for _, excl := range excluded {
		if excl.ID == p.ID {
			return true
		}
	}
	return false
}
