package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/client"
	"github.com/tendant/simple-account/pkg/profile"
)

func setupHandler(t *testing.T, writeMiddlewares ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()

	svc := profile.NewProfileService(profile.NewInMemoryProfileRepository())
	return NewProfileHandler(svc).Routes(writeMiddlewares...)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, ctxUser *client.AuthUser) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ctxUser != nil {
		req = req.WithContext(client.WithAuthUser(req.Context(), ctxUser))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProfileHandler(t *testing.T) {
	h := setupHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/", ProfileRequest{FirstName: "Ada", LastName: "Lovelace"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created profile.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEqual(t, uuid.Nil, created.ID)

	t.Run("Get", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/"+created.ID.String(), nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got profile.Profile
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, created, got)
	})

	t.Run("UpdateInPlace", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, "/"+created.ID.String(), ProfileRequest{FirstName: "Augusta", LastName: "King"}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = doJSON(t, h, http.MethodGet, "/", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var all []profile.Profile
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
		require.Len(t, all, 1)
		assert.Equal(t, "Augusta", all[0].FirstName)
		assert.Equal(t, created.ID, all[0].ID)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, "/"+uuid.NewString(), ProfileRequest{FirstName: "Ghost"}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("GetMissing", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/"+uuid.NewString(), nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/not-a-uuid", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NameTooLong", func(t *testing.T) {
		long := string(bytes.Repeat([]byte("a"), 256))
		rec := doJSON(t, h, http.MethodPost, "/", ProfileRequest{FirstName: long}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProfileHandler_WriteGuardApplied(t *testing.T) {
	h := setupHandler(t, client.RequireRole("ROLE_ADMIN"))

	rec := doJSON(t, h, http.MethodPost, "/", ProfileRequest{FirstName: "Ada"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := &client.AuthUser{UserId: "1", ExtraClaims: client.ExtraClaims{Username: "root", Roles: []string{"ROLE_ADMIN"}}}
	rec = doJSON(t, h, http.MethodPost, "/", ProfileRequest{FirstName: "Ada"}, admin)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
