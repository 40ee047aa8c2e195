package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret", time.Second)
}

func TestListEventLogs_BareArray(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event-logs", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"1","event_id":"e1","message":"User created successfully","performedBy":"dr.ana","role":"doctor","createdAt":"2024-03-10T09:00:00Z"}]`))
	})

	logs, err := c.ListEventLogs(context.Background())

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "1", logs[0].ID)
	assert.Equal(t, "e1", logs[0].EventID)
	assert.Equal(t, "dr.ana", logs[0].PerformedBy)
	assert.Equal(t, "2024-03-10T09:00:00Z", logs[0].CreatedAt)
}

func TestListEventLogs_DataEnvelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"_id":"a"},{"_id":"b"}]}`))
	})

	logs, err := c.ListEventLogs(context.Background())

	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestListEventLogs_EmptyBodyIsEmptyList(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logs, err := c.ListEventLogs(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestListEventLogs_ErrorStatusCarriesMessage(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	})

	_, err := c.ListEventLogs(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Contains(t, err.Error(), "502")
}

func TestListEventLogs_MalformedJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":`))
	})

	_, err := c.ListEventLogs(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode event logs")
}

func TestPing(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	assert.NoError(t, c.Ping(context.Background()))
}

func TestNoTokenOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", 0).ListEventLogs(context.Background())
	assert.NoError(t, err)
}

func TestListEventLogs_RejectsOversizedBody(t *testing.T) {
	payload := `[{"_id":"1","message":"Patient added"}]`
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})
	c.maxBody = int64(len(payload)) - 1

	logs, err := c.ListEventLogs(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Nil(t, logs)
}

func TestListEventLogs_BodyAtCapIsRead(t *testing.T) {
	payload := `[{"_id":"1","message":"Patient added"}]`
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})
	c.maxBody = int64(len(payload))

	logs, err := c.ListEventLogs(context.Background())

	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestNewClient_DefaultResponseCap(t *testing.T) {
	c := NewClient("http://lab.local", "", 0)

	assert.Equal(t, DefaultMaxResponseBytes, c.maxBody)
}
