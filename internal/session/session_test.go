package session

import (
	"sync"
	"testing"
)

type handle struct {
	name  string
	token string
}

func TestStore(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		s := New[*handle]()
		if h, ok := s.Read(); ok || h != nil {
			t.Errorf("expected empty store, got %v", h)
		}
		if s.Version() != 0 {
			t.Errorf("expected version 0, got %d", s.Version())
		}
		if _, ok := s.InstalledAt(); ok {
			t.Error("expected no install time")
		}
	})

	t.Run("replace then read", func(t *testing.T) {
		s := New[*handle]()
		h := &handle{name: "first"}
		s.Replace(h)

		got, ok := s.Read()
		if !ok || got != h {
			t.Fatalf("expected installed handle, got %v", got)
		}
		if s.Version() != 1 {
			t.Errorf("expected version 1, got %d", s.Version())
		}
	})

	t.Run("replacing with the same handle is idempotent", func(t *testing.T) {
		s := New[*handle]()
		h := &handle{name: "same"}
		s.Replace(h)
		s.Replace(h)

		for i := 0; i < 3; i++ {
			if got, ok := s.Read(); !ok || got != h {
				t.Fatalf("read %d: expected same handle, got %v", i, got)
			}
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		s := New[*handle]()
		s.Replace(&handle{name: "old"})
		s.Replace(&handle{name: "new"})

		if got, _ := s.Read(); got.name != "new" {
			t.Errorf("expected new handle, got %s", got.name)
		}
	})

	t.Run("concurrent readers never see a partial handle", func(t *testing.T) {
		s := New[handle]()
		s.Replace(handle{name: "a", token: "a"})

		var wg sync.WaitGroup
		stop := make(chan struct{})
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
					}
					h, ok := s.Read()
					if !ok || h.name != h.token {
						t.Errorf("torn read: %+v", h)
						return
					}
				}
			}()
		}

		for i := 0; i < 1000; i++ {
			v := string(rune('a' + i%26))
			s.Replace(handle{name: v, token: v})
		}
		close(stop)
		wg.Wait()

		if s.Version() != 1001 {
			t.Errorf("expected version 1001, got %d", s.Version())
		}
	})
}
