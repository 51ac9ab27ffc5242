package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactClient_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewContactClient("  ", "key", "src", time.Second, nil))
}

func TestContactClient_SyncContact(t *testing.T) {
	var got map[string]string
	var auth string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"contact":{"id":"c1"}}`))
	}))
	defer srv.Close()

	c := NewContactClient(srv.URL+"/v1/", "crm-key", "Scale+ Captions App", time.Second, nil)
	err := c.SyncContact(context.Background(), Contact{
		Email:        "owner@bakery.test",
		Phone:        "5551234567",
		FirstName:    "Ada",
		BusinessName: "Crumb",
		BusinessType: "Food & Beverage",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer crm-key", auth)
	assert.Equal(t, "/v1/contacts/", path)
	assert.Equal(t, "Scale+ Captions App", got["source"])
	assert.Equal(t, "owner@bakery.test", got["email"])
	assert.Equal(t, "Ada", got["firstName"])
	assert.Equal(t, "Food & Beverage", got["businessType"])
}

func TestContactClient_NonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"msg":"bad phone"}`))
	}))
	defer srv.Close()

	c := NewContactClient(srv.URL, "", "src", time.Second, nil)
	err := c.SyncContact(context.Background(), Contact{Email: "a@b.c"})
	require.ErrorIs(t, err, ErrSyncFailed)
	assert.Contains(t, err.Error(), "status=422")
}

func TestContactClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewContactClient(url, "", "src", time.Second, nil)
	assert.ErrorIs(t, c.SyncContact(context.Background(), Contact{}), ErrSyncFailed)
}
