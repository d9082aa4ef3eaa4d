package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regimenhq/regimen/pkg/protocol"
	"github.com/regimenhq/regimen/pkg/storage"
)

func TestNewEmptyURL(t *testing.T) {
	assert.Nil(t, New(""))
}

func TestVersionCreatedPayload(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := New(srv.URL)
	require.NotNil(t, n)

	v := &storage.RoutineVersion{
		ID:            "v-1",
		UserID:        "u-1",
		VersionNumber: 3,
		Reason:        "dropped creatine",
		Changes: protocol.RoutineChanges{
			DietChanged: &protocol.ValueChange{From: "keto", To: "paleo"},
			Stopped:     []protocol.SnapshotItem{{ID: "supplement-s1"}},
		},
	}
	n.VersionCreated(context.Background(), v)

	body := <-received
	assert.Equal(t, "routine_version.created", body["event"])
	assert.Equal(t, "v-1", body["version_id"])
	assert.Equal(t, float64(3), body["version_number"])
	assert.Equal(t, "dropped creatine", body["reason"])
	assert.Equal(t, true, body["diet_changed"])
	assert.Equal(t, false, body["macros_changed"])
	assert.Equal(t, float64(1), body["stopped"])
	assert.Equal(t, float64(0), body["started"])
}

func TestVersionCreatedServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := New(srv.URL)
	n.client.RetryMax = 0

	// Must not panic or block; delivery failures are swallowed.
	n.VersionCreated(context.Background(), &storage.RoutineVersion{ID: "v-1"})
}
