package state

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func newBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadgerInMemory()
	assert.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})
	return s
}

func TestBadgerStore_UpdateCommits(t *testing.T) {
	s := newBadger(t)

	assert.NoError(t, s.Update(func(st Store) error {
		return st.Set("k", []byte("v"))
	}))

	_ = s.View(func(st Store) error {
		v, err := st.Get("k")
		check.NoError(t, err)
		check.Equal(t, "v", string(v))
		return nil
	})
}

func TestBadgerStore_UpdateRollsBackOnError(t *testing.T) {
	s := newBadger(t)
	boom := errors.New("boom")

	err := s.Update(func(st Store) error {
		if err := st.Set("k", []byte("v")); err != nil {
			return err
		}
		return boom
	})
	check.True(t, errors.Is(err, boom))

	_ = s.View(func(st Store) error {
		_, err := st.Get("k")
		check.True(t, errors.Is(err, ErrNotFound))
		return nil
	})
}

func TestBadgerStore_MissingKeyMapsToErrNotFound(t *testing.T) {
	s := newBadger(t)

	_ = s.View(func(st Store) error {
		_, err := st.Get("missing")
		check.True(t, errors.Is(err, ErrNotFound))
		return nil
	})
}

func TestBadgerStore_DurableAcrossTransactions(t *testing.T) {
	s := newBadger(t)
	item := NewItem[int]("counter")

	assert.NoError(t, s.Update(func(st Store) error {
		return item.Save(st, 1)
	}))
	assert.NoError(t, s.Update(func(st Store) error {
		n, err := item.Load(st)
		if err != nil {
			return err
		}
		return item.Save(st, n+1)
	}))

	_ = s.View(func(st Store) error {
		n, err := item.Load(st)
		check.NoError(t, err)
		check.Equal(t, 2, n)
		return nil
	})
}
