package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

func TestRecorder_Counts(t *testing.T) {
	r := NewRecorder()

	r.SlotSettled(models.MustMoney("10.50"))
	r.BoardApproved(3, models.MustMoney("250"))
	r.SlotsFilled(4)
	r.SlotsFilled(2)
	r.BoardOccupancy(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.settlements))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.approvals))
	assert.Equal(t, 260.5, testutil.ToFloat64(r.settledAmount))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.slotsFilled))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.occupancy))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.BoardOccupancy(3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payrun_board_occupied_slots 3")
}

func TestServer_ServesAndStopsOnCancel(t *testing.T) {
	r := NewRecorder()
	r.SlotsFilled(2)
	s := NewServer("127.0.0.1:0", r, logging.Nop{})

	listen, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, listen) }()

	resp, err := http.Get("http://" + listen.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "payrun_autofill_slots_total 2"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
