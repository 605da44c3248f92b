package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetOrFetch(t *testing.T) {
	t.Run("Segunda leitura vem do cache sem novo fetch", func(t *testing.T) {
		store := New(time.Minute)
		key := Key{Kind: KindCompanies}

		var calls int
		fetch := func() (any, error) {
			calls++
			return []string{"Acme"}, nil
		}

		first, err := store.GetOrFetch(key, fetch)
		assert.NoError(t, err)

		second, err := store.GetOrFetch(key, fetch)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("Invalidação do tipo força novo fetch", func(t *testing.T) {
		store := New(time.Minute)
		key := Key{Kind: KindDeals, Filter: "stage:lead"}

		var calls int
		fetch := func() (any, error) {
			calls++
			return calls, nil
		}

		_, _ = store.GetOrFetch(key, fetch)
		store.InvalidateKind(KindDeals)
		value, err := store.GetOrFetch(key, fetch)

		assert.NoError(t, err)
		assert.Equal(t, 2, value)
	})

	t.Run("Invalidar um tipo não afeta os demais", func(t *testing.T) {
		store := New(time.Minute)
		dealKey := Key{Kind: KindDeals}
		companyKey := Key{Kind: KindCompanies}

		var dealCalls, companyCalls int
		_, _ = store.GetOrFetch(dealKey, func() (any, error) { dealCalls++; return nil, nil })
		_, _ = store.GetOrFetch(companyKey, func() (any, error) { companyCalls++; return nil, nil })

		store.InvalidateKind(KindDeals)

		_, _ = store.GetOrFetch(dealKey, func() (any, error) { dealCalls++; return nil, nil })
		_, _ = store.GetOrFetch(companyKey, func() (any, error) { companyCalls++; return nil, nil })

		assert.Equal(t, 2, dealCalls)
		assert.Equal(t, 1, companyCalls)
	})

	t.Run("Erros não são cacheados", func(t *testing.T) {
		store := New(time.Minute)
		key := Key{Kind: KindContacts}
		fetchErr := errors.New("falha de rede")

		var calls int
		fetch := func() (any, error) {
			calls++
			if calls == 1 {
				return nil, fetchErr
			}
			return "ok", nil
		}

		_, err := store.GetOrFetch(key, fetch)
		assert.ErrorIs(t, err, fetchErr)
		assert.ErrorIs(t, store.Err(key), fetchErr)

		value, err := store.GetOrFetch(key, fetch)
		assert.NoError(t, err)
		assert.Equal(t, "ok", value)
		assert.NoError(t, store.Err(key))
	})

	t.Run("TTL expirado força novo fetch", func(t *testing.T) {
		store := New(time.Nanosecond)
		key := Key{Kind: KindDashboard}

		var calls int
		fetch := func() (any, error) {
			calls++
			return calls, nil
		}

		_, _ = store.GetOrFetch(key, fetch)
		time.Sleep(time.Millisecond)
		value, _ := store.GetOrFetch(key, fetch)

		assert.Equal(t, 2, value)
	})
}

func TestStore_SingleflightDedup(t *testing.T) {
	store := New(time.Minute)
	key := Key{Kind: KindDeals}

	var calls int32
	release := make(chan struct{})
	fetch := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "deals", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := store.GetOrFetch(key, fetch)
			assert.NoError(t, err)
			assert.Equal(t, "deals", value)
		}()
	}

	// Dar tempo para as goroutines se juntarem ao mesmo voo
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStore_Subscribe(t *testing.T) {
	t.Run("Último release descarta a entrada", func(t *testing.T) {
		store := New(time.Minute)
		key := Key{Kind: KindActivities, Filter: "entity:deal:d1:limit:20"}

		release1 := store.Subscribe(key)
		release2 := store.Subscribe(key)

		store.Prime(key, "feed")

		release1()
		value, ok := store.fresh(key)
		assert.True(t, ok)
		assert.Equal(t, "feed", value)

		release2()
		_, ok = store.fresh(key)
		assert.False(t, ok)
	})

	t.Run("Release é idempotente", func(t *testing.T) {
		store := New(time.Minute)
		key := Key{Kind: KindProfiles}

		release1 := store.Subscribe(key)
		release2 := store.Subscribe(key)

		store.Prime(key, "profiles")

		release1()
		release1() // chamada repetida não decrementa de novo

		_, ok := store.fresh(key)
		assert.True(t, ok)

		release2()
		_, ok = store.fresh(key)
		assert.False(t, ok)
	})
}

func TestFetch_Typed(t *testing.T) {
	store := New(time.Minute)
	key := Key{Kind: KindCompanies}

	value, err := Fetch(store, key, func() ([]string, error) {
		return []string{"Acme", "Globex"}, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, value)

	_, err = Fetch(store, Key{Kind: KindContacts}, func() ([]string, error) {
		return nil, errors.New("falha")
	})
	assert.Error(t, err)
}
