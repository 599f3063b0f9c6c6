package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kattitatu/riot-account-manager/internal/logger"
)

func newValidator(t *testing.T, status int) *KeyValidator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, statusPath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Riot-Token"))
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"id":"NA1","name":"North America"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return NewKeyValidator(WithBaseURL(srv.URL), WithLogger(logger.Discard()))
}

func TestValidateKey_ValidKey(t *testing.T) {
	valid, err := newValidator(t, http.StatusOK).ValidateKey(context.Background(), "RGAPI-test-key", "")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateKey_InvalidKey(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		valid, err := newValidator(t, status).ValidateKey(context.Background(), "RGAPI-expired-key", "euw1")
		require.NoError(t, err)
		assert.False(t, valid)
	}
}

func TestValidateKey_ServerError(t *testing.T) {
	valid, err := newValidator(t, http.StatusInternalServerError).ValidateKey(context.Background(), "RGAPI-test-key", "euw1")
	assert.Error(t, err)
	assert.False(t, valid)
}

func TestValidateKey_EmptyKey(t *testing.T) {
	valid, err := NewKeyValidator().ValidateKey(context.Background(), "", "euw1")
	assert.Error(t, err)
	assert.False(t, valid)
}

func TestValidateKey_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	v := NewKeyValidator(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond), WithLogger(logger.Discard()))
	valid, err := v.ValidateKey(context.Background(), "RGAPI-test-key", "euw1")
	assert.Error(t, err)
	assert.False(t, valid)
}
