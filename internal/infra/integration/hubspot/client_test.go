package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

func TestForward_CreatesMissingContact(t *testing.T) {
	var created ContactRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/crm/v3/objects/contacts/search":
			var req SearchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "email", req.FilterGroups[0].Filters[0].PropertyName)
			assert.Equal(t, "jane@example.com", req.FilterGroups[0].Filters[0].Value)
			json.NewEncoder(w).Encode(SearchResponse{})
		case "/crm/v3/objects/contacts":
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(ContactResponse{ID: "101"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", zap.NewNop())
	err := c.Forward(context.Background(), queue.LeadPayload{Email: "jane@example.com", FirstName: "Jane"})

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", created.Properties.Email)
	assert.Equal(t, "lead", created.Properties.LifecycleStage)
}

func TestForward_UpdatesExistingContact(t *testing.T) {
	var patched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/crm/v3/objects/contacts/search":
			var req SearchRequest
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "phone", req.FilterGroups[0].Filters[0].PropertyName)
			json.NewEncoder(w).Encode(SearchResponse{Total: 1, Results: []ContactResponse{{ID: "77"}}})
		case r.URL.Path == "/crm/v3/objects/contacts/77" && r.Method == http.MethodPatch:
			var req ContactRequest
			json.NewDecoder(r.Body).Decode(&req)
			assert.Empty(t, req.Properties.LifecycleStage)
			patched = true
			json.NewEncoder(w).Encode(ContactResponse{ID: "77"})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "secret", zap.NewNop()).Forward(context.Background(), queue.LeadPayload{Phone: "+33612345678"})

	require.NoError(t, err)
	assert.True(t, patched)
}

func TestForward_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad token"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "bad", zap.NewNop()).Forward(context.Background(), queue.LeadPayload{Email: "a@b.co"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestForward_CreateIsNotRetriedAfterTransportError(t *testing.T) {
	var creates, searches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/crm/v3/objects/contacts/search":
			searches.Add(1)
			json.NewEncoder(w).Encode(SearchResponse{})
		case "/crm/v3/objects/contacts":
			creates.Add(1)
			// drop the connection as if the response was lost after the write
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", zap.NewNop())
	err := c.Forward(context.Background(), queue.LeadPayload{Email: "jane@example.com"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create contact")
	assert.Equal(t, int32(1), creates.Load())
	assert.Equal(t, int32(1), searches.Load())
}
