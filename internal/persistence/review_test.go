package persistence

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReviewClientSubmitIsNoOpWithoutEndpoint(t *testing.T) {
	c := NewReviewClient("", nil)
	require.NoError(t, c.Submit(5, "great run"))
}

func TestReviewClientSubmitFoldsFullWidthTextAndPosts(t *testing.T) {
	var received reviewDocument
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewReviewClient(srv.URL, srv.Client())
	require.NoError(t, c.Submit(4, "ｇｒｅａｔ"))
	require.Equal(t, 4, received.Rating)
	require.Equal(t, "great", received.Text, "full-width input must fold to half-width before storage")
}

func TestReviewClientSubmitWrapsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("store unavailable"))
	}))
	defer srv.Close()

	c := NewReviewClient(srv.URL, srv.Client())
	err := c.Submit(1, "bad run")
	require.Error(t, err)
}
