package httpclient

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

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/things", r.URL.Path)
		assert.Equal(t, "abc", r.Header.Get("X-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)

	var out struct {
		Echo string `json:"echo"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "things", map[string]string{"X-Key": "abc"}, map[string]string{"name": "milo"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "milo", out.Echo)
}

func TestDoJSON_Non2xx_ReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()

	c := New(time.Second)
	err := c.DoJSON(context.Background(), http.MethodGet, srv.URL+"/x", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusTeapot, StatusOf(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestDoJSON_RelativeWithoutBaseURL(t *testing.T) {
	c := New(0)
	err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires BaseURL")
}

func TestNewWithBaseURL_Invalid(t *testing.T) {
	_, err := NewWithBaseURL("::not a url", time.Second)
	require.Error(t, err)
}
