package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"testing"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/profile"
	logsvc "github.com/trezcool/masomo-portal/services/logger"
	inmemdb "github.com/trezcool/masomo-portal/storage/database/inmem"
)

// NewLogger returns a logger that discards everything and never reports to rollbar.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return logger
}

// NewProfileService returns a profile.Service backed by a fresh in-memory store.
func NewProfileService() *profile.Service {
	return profile.NewService(inmemdb.NewProfileRepository(inmemdb.Open()), NewLogger())
}

func CreateProfile(t *testing.T, svc *profile.Service, name, email, cpf string) profile.Profile {
	p, err := svc.Create(context.Background(), profile.NewProfile{Name: name, Email: email, CPF: cpf})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return p
}
