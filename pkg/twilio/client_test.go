package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("AC123", "secret", "+15550000000")
	c.baseURL = srv.URL
	return c
}

func TestSendSMS(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"To":   r.PostForm.Get("To"),
			"From": r.PostForm.Get("From"),
			"Body": r.PostForm.Get("Body"),
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := c.SendSMS(context.Background(), "+15551112222", "Pay rent")
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "+15551112222", gotForm["To"])
	assert.Equal(t, "+15550000000", gotForm["From"])
	assert.Equal(t, "Pay rent", gotForm["Body"])
}

func TestPlaceCallEscapesMessage(t *testing.T) {
	var gotTwiml string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotTwiml = r.PostForm.Get("Twiml")
		w.WriteHeader(http.StatusCreated)
	})

	err := c.PlaceCall(context.Background(), "+15551112222", "tea & biscuits <now>")
	require.NoError(t, err)

	assert.Equal(t, "<Response><Say>tea &amp; biscuits &lt;now&gt;</Say></Response>", gotTwiml)
}

func TestErrorStatusSurfaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	err := c.SendSMS(context.Background(), "+15551112222", "Pay rent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twilio API error")
}
