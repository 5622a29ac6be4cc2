package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/profile"
	inmemdb "github.com/trezcool/masomo-portal/storage/database/inmem"
	"github.com/trezcool/masomo-portal/tests"
)

func Test_profileApi_create(t *testing.T) {
	app, svc := setup(t)
	path := "/v1/profiles"
	testutil.CreateProfile(t, svc, "Existing", "existing@test.br", "111.444.777-35")

	runHTTPTests(t, app, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: path, body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "this field is required", "cpf": "this field is required"}`),
		},
		{
			name: "invalid cpf and email", method: http.MethodPost, path: path,
			body:     []byte(`{"name": "Ana", "email": "lol", "cpf": "123.456.789-00"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "email must be a valid email address", "cpf": "invalid CPF"}`),
		},
		{
			name: "duplicate cpf", method: http.MethodPost, path: path,
			body:     []byte(`{"name": "Ana", "cpf": "11144477735"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"cpf": "a profile with this CPF already exists"}`),
		},
	})

	t.Run("created", func(t *testing.T) {
		body := []byte(`{"name": " Ana Souza ", "email": "ANA@test.br", "cpf": "529.982.247-25", "language": {"name": "Inglês"}}`)
		req, rec := newRequest(http.MethodPost, path, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var p profile.Profile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "Ana Souza", p.Name)
		assert.Equal(t, "ana@test.br", p.Email)
		assert.Equal(t, "52998224725", p.CPF)
		assert.Equal(t, "🇬🇧", p.Flag)
		assert.False(t, p.CreatedAt.IsZero())
	})
}

func Test_profileApi_retrieve(t *testing.T) {
	app, svc := setup(t)
	p := testutil.CreateProfile(t, svc, "Ana", "ana@test.br", "52998224725")

	runHTTPTests(t, app, []httpTest{
		{name: "not a uuid", path: "/v1/profiles/lol", wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"})},
		{
			name: "unknown", path: "/v1/profiles/0b6c3f5e-5a52-4a4b-9a7e-0f6d9b0c2b11",
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
		{name: "found", path: "/v1/profiles/" + p.ID, wantCode: http.StatusOK, wantData: marshallObj(t, p)},
		{name: "trailing slash", path: "/v1/profiles/" + p.ID + "/", wantCode: http.StatusOK, wantData: marshallObj(t, p)},
	})
}

func Test_profileApi_query(t *testing.T) {
	app, svc := setup(t)
	ana := testutil.CreateProfile(t, svc, "Ana", "ana@test.br", "52998224725")
	bia := testutil.CreateProfile(t, svc, "Bia", "bia@test.br", "11144477735")
	caio := testutil.CreateProfile(t, svc, "Caio", "caio@example.com", "70499962206")

	list := func(ps ...profile.Profile) []byte {
		masked := make([]profile.Profile, 0, len(ps))
		for _, p := range ps {
			masked = append(masked, p.Masked())
		}
		return marshallObj(t, masked)
	}

	runHTTPTests(t, app, []httpTest{
		{name: "order by name", path: "/v1/profiles?ordering=name", wantCode: http.StatusOK, wantData: list(ana, bia, caio)},
		{name: "order by -name", path: "/v1/profiles?ordering=-name", wantCode: http.StatusOK, wantData: list(caio, bia, ana)},
		{name: "search", path: "/v1/profiles?search=test.br&ordering=name", wantCode: http.StatusOK, wantData: list(ana, bia)},
		{name: "search (unknown)", path: "/v1/profiles?search=lol", wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "unknown ordering ignored", path: "/v1/profiles?ordering=cpf,name", wantCode: http.StatusOK, wantData: list(ana, bia, caio)},
	})
}

func Test_profileApi_update(t *testing.T) {
	app, svc := setup(t)
	ana := testutil.CreateProfile(t, svc, "Ana", "ana@test.br", "52998224725")
	testutil.CreateProfile(t, svc, "Bia", "bia@test.br", "11144477735")
	path := "/v1/profiles/" + ana.ID

	runHTTPTests(t, app, []httpTest{
		{
			name: "invalid cpf", method: http.MethodPut, path: path, body: []byte(`{"cpf": "52998224726"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"cpf": "invalid CPF"}`),
		},
		{
			name: "cpf taken", method: http.MethodPut, path: path, body: []byte(`{"cpf": "111.444.777-35"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"cpf": "a profile with this CPF already exists"}`),
		},
		{
			name: "unknown profile", method: http.MethodPut, path: "/v1/profiles/0b6c3f5e-5a52-4a4b-9a7e-0f6d9b0c2b11",
			body: []byte(`{}`), wantCode: http.StatusNotFound,
		},
	})

	t.Run("updated", func(t *testing.T) {
		body := []byte(`{"name": "Ana S.", "cpf": "529.982.247-25", "language": {"code": "fr"}}`)
		req, rec := newRequest(http.MethodPut, path, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var p profile.Profile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, ana.ID, p.ID)
		assert.Equal(t, "Ana S.", p.Name)
		assert.Equal(t, "ana@test.br", p.Email)
		assert.Equal(t, "52998224725", p.CPF)
		assert.Equal(t, "🇫🇷", p.Flag)
		assert.True(t, p.UpdatedAt.After(ana.UpdatedAt) || p.UpdatedAt.Equal(ana.UpdatedAt))
	})
}

// uncheckedRepository skips the uniqueness pre-check, as when two writes race.
type uncheckedRepository struct {
	profile.Repository
}

func (uncheckedRepository) CheckCPFUniqueness(context.Context, string, ...profile.Profile) error {
	return nil
}

// brokenRepository fails every query.
type brokenRepository struct {
	profile.Repository
}

func (brokenRepository) QueryProfiles(context.Context, profile.QueryFilter, ...core.DBOrdering) ([]profile.Profile, error) {
	return nil, errors.New("connection refused")
}

func Test_profileApi_storeErrors(t *testing.T) {
	conf := &core.Config{Env: "TEST", Debug: true, TestMode: true, Server: core.ServerConfig{DisableReqLogs: true}}
	repo := inmemdb.NewProfileRepository(inmemdb.Open())

	svc := profile.NewService(uncheckedRepository{Repository: repo}, testutil.NewLogger())
	ana := testutil.CreateProfile(t, svc, "Ana", "ana@test.br", "52998224725")
	testutil.CreateProfile(t, svc, "Bia", "bia@test.br", "11144477735")

	runHTTPTests(t, newTestServer(t, conf, svc), []httpTest{
		{
			name: "create: cpf taken in store", method: http.MethodPost, path: "/v1/profiles",
			body:     []byte(`{"name": "Dup", "cpf": "529.982.247-25"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"cpf": "a profile with this CPF already exists"}`),
		},
		{
			name: "update: cpf taken in store", method: http.MethodPut, path: "/v1/profiles/" + ana.ID,
			body:     []byte(`{"cpf": "111.444.777-35"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"cpf": "a profile with this CPF already exists"}`),
		},
	})

	broken := profile.NewService(brokenRepository{Repository: repo}, testutil.NewLogger())
	runHTTPTests(t, newTestServer(t, conf, broken), []httpTest{
		{
			name: "debug shows the cause", path: "/v1/profiles",
			wantCode: http.StatusInternalServerError,
			wantData: marshallObj(t, httpErr{Error: "querying profiles: connection refused"}),
		},
	})

	conf.Debug = false
	runHTTPTests(t, newTestServer(t, conf, broken), []httpTest{
		{
			name: "hides the cause", path: "/v1/profiles",
			wantCode: http.StatusInternalServerError,
			wantData: marshallObj(t, httpErr{Error: http.StatusText(http.StatusInternalServerError)}),
		},
	})
}
