package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nazedev/botpanel/internal/panel"
	"github.com/nazedev/botpanel/internal/session"
	"github.com/nazedev/botpanel/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPanelClient(t *testing.T) (*Client, *session.Store) {
	t.Helper()
	testlog.Start(t)
	store := session.New(session.Options{
		Profile:       session.DefaultProfile(),
		PairingDelay:  10 * time.Millisecond,
		CodeGenerator: func() string { return "ABC123" },
	})
	t.Cleanup(store.Close)
	p := panel.Appear("panel-watch", ":0", nil, store)
	p.RegisterRoutes()
	srv := httptest.NewServer(p.HTTPRouter())
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c, store
}

func TestClientRoundTrip(t *testing.T) {
	c, store := newPanelClient(t)
	ctx := context.Background()

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "initializing", status.ConnectionStatus)
	assert.Nil(t, status.PairingCode)

	pair, err := c.Pair(ctx, "+62 812-3456-7890")
	require.NoError(t, err)
	assert.Equal(t, "success", pair.Status)
	assert.Equal(t, "6281234567890", pair.Phone)

	require.Eventually(t, func() bool {
		s, err := c.Status(ctx)
		return err == nil && s.PairingCode != nil && *s.PairingCode == "ABC123"
	}, time.Second, 5*time.Millisecond)

	cleared, err := c.ClearSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Session cleared successfully", cleared.Message)
	assert.Equal(t, session.StatusInitializing, store.ConnectionStatus())

	owners, err := c.UpdateOwners(ctx, []string{"628111", "628222"})
	require.NoError(t, err)
	assert.Equal(t, []string{"628111", "628222"}, owners.Owners)

	settings, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"628111", "628222"}, settings.Owner)
	assert.True(t, settings.MultiBot.Enabled)
}

func TestClientSurfacesAPIError(t *testing.T) {
	c, _ := newPanelClient(t)

	_, err := c.UpdateOwners(context.Background(), []string{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Owners must not be empty", apiErr.Message)
}

func TestClientGatewayEnvelopeMessage(t *testing.T) {
	testlog.Start(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Cannot fetch settings","message":"connection refused"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	_, err = c.Settings(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Cannot fetch settings: connection refused", apiErr.Message)
}

func TestNewClientNormalizesURL(t *testing.T) {
	_, err := NewClient("  ", 0)
	assert.ErrorIs(t, err, ErrBaseURLRequired)

	c, err := NewClient("localhost:3000/", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", c.BaseURL())
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"6281234567890", "6281234567890", true},
		{"+62 812-3456", "628123456", true},
		{"12345678", "12345678", true},
		{"1234567", "", false},
		{"1234567890123456", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		got, err := ValidatePhone(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidPhone, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}
