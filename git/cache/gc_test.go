package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_StartGC(t *testing.T) {
	t.Run("runs periodically", func(t *testing.T) {
		m, _ := newTestManager(t)
		seedRepo(t, m, acmeNotes, nil)

		// Never touched, so any age limit evicts it.
		stop := m.StartGC(10*time.Millisecond, PruneOlderThan(time.Hour))
		time.Sleep(100 * time.Millisecond)
		stop()

		assert.False(t, m.IsCached(acmeNotes))
	})

	t.Run("stop returns and is idempotent", func(t *testing.T) {
		m, _ := newTestManager(t)
		stop := m.StartGC(time.Hour)

		done := make(chan struct{})
		go func() {
			stop()
			stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("stop did not return within 1 second")
		}
	})
}
