package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBearer struct {
	token string
	err   error
}

func (s staticBearer) BearerToken(context.Context) (string, error) {
	return s.token, s.err
}

func TestClient_GetSuccess(t *testing.T) {
	var gotPath, gotQuery, gotAccept, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/api", nil)
	require.NoError(t, err)

	result, err := client.Get(context.Background(), "jobs/", url.Values{"page": {"2"}}, false)
	require.NoError(t, err)

	assert.Equal(t, "/api/jobs/", gotPath)
	assert.Equal(t, "page=2", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, gotRequestID, result.RequestID)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "application/json", result.ContentType)

	var body struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, DecodeJSON(result, &body))
	assert.True(t, body.OK)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid base URL")
}

func TestClient_Resolve(t *testing.T) {
	client, err := NewClient("https://api.example.com/v1", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1/", client.BaseURL())
	assert.Equal(t, "https://api.example.com/v1/jobs/", client.Resolve("/jobs/", nil))
	assert.Equal(t,
		"https://api.example.com/v1/jobs/?location_id=1&location_id=3&page=1",
		client.Resolve("jobs/", url.Values{"page": {"1"}, "location_id": {"1", "3"}}))
}

func TestClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Invalid page."}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	result, err := client.Get(context.Background(), "jobs/", nil, false)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Invalid page.")
}

func TestClient_ServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "need between 2 and 5 ids"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "jobs/compare/", nil, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "need between 2 and 5 ids")
}

func TestClient_Bearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	t.Run("no bearer source", func(t *testing.T) {
		_, err := client.Get(context.Background(), "recruiter/jobs/", nil, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAuthRequired)
	})

	t.Run("token attached", func(t *testing.T) {
		_, err := client.WithBearer(staticBearer{token: "abc"}).Get(context.Background(), "recruiter/jobs/", nil, true)
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", gotAuth)
	})

	t.Run("unauthenticated request omits header", func(t *testing.T) {
		_, err := client.WithBearer(staticBearer{token: "abc"}).Get(context.Background(), "jobs/", nil, false)
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
	})

	t.Run("bearer failure", func(t *testing.T) {
		sourceErr := errors.New("token expired")
		_, err := client.WithBearer(staticBearer{err: sourceErr}).Get(context.Background(), "recruiter/jobs/", nil, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, sourceErr)
	})
}

func TestClient_CustomHeaders(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, &Options{
		UserAgent: "CustomAgent/1.0",
		Headers:   map[string]string{"Accept-Language": "vi"},
	})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "categories/", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "CustomAgent/1.0", gotUA)
	assert.Equal(t, "vi", gotLang)
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Get(ctx, "jobs/", nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, StatusCode(err))
}

func TestDecodeJSON_Invalid(t *testing.T) {
	err := DecodeJSON(&Result{URL: "http://x/jobs/", Body: []byte("<html>"), StatusCode: 200}, &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode JSON response")

	assert.Error(t, DecodeJSON(nil, &struct{}{}))
}
