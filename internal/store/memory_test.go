package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/livestatus/mapping"
)

func loadedPanel(name string, entries ...mapping.Entry) Panel {
	return Panel{
		Name:      name,
		Loaded:    true,
		Entries:   entries,
		UpdatedAt: time.Now(),
	}
}

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	require.NotNil(t, store)
	assert.Empty(t, store.GetAll())
}

func TestMemoryStore_RegisterKeepsOrder(t *testing.T) {
	store := NewMemoryStore()

	store.Register(Panel{Name: "Cost"})
	store.Register(Panel{Name: "Infra"})
	store.Register(Panel{Name: "Data"})

	all := store.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, "Cost", all[0].Name)
	assert.Equal(t, "Infra", all[1].Name)
	assert.Equal(t, "Data", all[2].Name)
	for _, p := range all {
		assert.False(t, p.Loaded)
	}
}

func TestMemoryStore_RegisterDoesNotOverwrite(t *testing.T) {
	store := NewMemoryStore()

	store.Update(loadedPanel("Cost", mapping.Entry{Key: "a", Label: "A", Value: "1"}))
	store.Register(Panel{Name: "Cost"})

	all := store.GetAll()
	require.Len(t, all, 1)
	assert.True(t, all[0].Loaded)
}

func TestMemoryStore_RegisterDoesNotNotify(t *testing.T) {
	store := NewMemoryStore()
	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	store.Register(Panel{Name: "Cost"})

	select {
	case p := <-ch:
		t.Fatalf("unexpected notification for %q", p.Name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryStore_UpdateReplaces(t *testing.T) {
	store := NewMemoryStore()
	store.Register(Panel{Name: "Cost"})
	store.Register(Panel{Name: "Infra"})

	store.Update(loadedPanel("Cost", mapping.Entry{Key: "cpu_usage", Label: "CPU USAGE", Value: "42"}))
	store.Update(loadedPanel("Cost", mapping.Entry{Key: "cpu_usage", Label: "CPU USAGE", Value: "43"}))

	all := store.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "Cost", all[0].Name, "update must not change display order")
	require.Len(t, all[0].Entries, 1)
	assert.Equal(t, "43", all[0].Entries[0].Value)
	assert.False(t, all[1].Loaded)
}

func TestMemoryStore_UpdateUnknownAppends(t *testing.T) {
	store := NewMemoryStore()
	store.Register(Panel{Name: "Cost"})

	store.Update(loadedPanel("Late"))

	all := store.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "Late", all[1].Name)
}

func TestMemoryStore_SnapshotsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	panel := loadedPanel("Cost", mapping.Entry{Key: "a", Label: "A", Value: "1"})
	panel.Labels = map[string]string{"env": "prod"}
	store.Update(panel)

	// mutate caller's copy
	panel.Labels["env"] = "changed"
	panel.Entries[0].Value = "changed"

	// mutate snapshot
	all := store.GetAll()
	all[0].Labels["env"] = "snapshot"
	all[0].Entries[0].Value = "snapshot"

	again := store.GetAll()
	assert.Equal(t, "prod", again[0].Labels["env"])
	assert.Equal(t, "1", again[0].Entries[0].Value)
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	require.NotNil(t, ch)

	go store.Update(loadedPanel("Test"))

	select {
	case p := <-ch:
		assert.Equal(t, "Test", p.Name)
	case <-time.After(time.Second):
		t.Error("Subscribe() channel did not receive update")
	}
}

func TestMemoryStore_MultipleSubscribers(t *testing.T) {
	store := NewMemoryStore()

	ch1 := store.Subscribe()
	ch2 := store.Subscribe()
	ch3 := store.Subscribe()

	go store.Update(loadedPanel("Test"))

	received := 0
	timeout := time.After(time.Second)
	for received < 3 {
		select {
		case <-ch1:
			received++
		case <-ch2:
			received++
		case <-ch3:
			received++
		case <-timeout:
			t.Fatalf("only received %d/3 updates", received)
		}
	}
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	store.Unsubscribe(ch)
	store.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "Unsubscribe() channel should be closed")
	case <-time.After(100 * time.Millisecond):
		t.Error("Unsubscribe() channel should be closed immediately")
	}
}

func TestMemoryStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewMemoryStore()

	// never read
	_ = store.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			store.Update(loadedPanel("Test"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Update() blocked on slow subscriber")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	const goroutines = 10
	const iterations = 100

	for i := 0; i < goroutines; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				store.Update(loadedPanel("API"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				_ = store.GetAll()
			}
		}()
		go func() {
			defer wg.Done()
			ch := store.Subscribe()
			time.Sleep(10 * time.Millisecond)
			store.Unsubscribe(ch)
		}()
	}

	wg.Wait()
	assert.Len(t, store.GetAll(), 1)
}
