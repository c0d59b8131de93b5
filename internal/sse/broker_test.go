package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	require.Equal(t, 0, b.ClientCount())

	ch := b.Subscribe()
	require.Equal(t, 1, b.ClientCount())

	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.ClientCount(), "clients after unsubscribe")
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: TypeSiteReload, Data: map[string]string{"run_id": "r1"}})

	select {
	case msg := <-ch:
		assert.Contains(t, string(msg), "event: site.reload")
		assert.Contains(t, string(msg), `"run_id":"r1"`)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func drain(ch chan []byte) []string {
	time.Sleep(50 * time.Millisecond)
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestPublishBuild_ReloadThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Only the first of two back-to-back builds triggers site.reload.
	b.PublishBuild(Build{RunID: "a", Documents: 3})
	b.PublishBuild(Build{RunID: "b", Documents: 3})

	reloadCount := 0
	buildCount := 0
	for _, s := range drain(ch) {
		switch {
		case strings.Contains(s, "event: site.reload"):
			reloadCount++
		case strings.Contains(s, "event: build.completed"):
			buildCount++
		}
	}

	assert.Equal(t, 2, buildCount, "build events")
	assert.Equal(t, 1, reloadCount, "reload events (throttled)")
}

func TestPublishBuild_FailureSkipsReload(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishBuild(Build{RunID: "x", Error: "site: pages: boom"})

	msgs := drain(ch)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "event: build.failed")
	assert.Contains(t, msgs[0], `"error":"site: pages: boom"`)
	assert.Contains(t, msgs[0], `"run_id":"x"`)
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, b.ClientCount(), "handler should subscribe")

	b.Publish(Event{Type: TypeBuildCompleted, Data: Build{RunID: "x"}})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	assert.Contains(t, w.Body.String(), "event: build.completed")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, b.ClientCount(), "client not cleaned up after disconnect")
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Publishing past the subscriber buffer must not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	require.Equal(t, 1, b.ClientCount())

	b.Close()

	select {
	case _, ok := <-ch:
		require.False(t, ok, "subscriber channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	assert.Equal(t, 0, b.ClientCount(), "clients after close")

	// Safe no-ops after close.
	b.Publish(Event{Type: TypeSiteReload, Data: map[string]string{}})
	b.PublishBuild(Build{RunID: "late"})
}
