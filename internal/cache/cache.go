// Package cache implementa a camada de sincronização entre consumidores e
// os serviços de entidade: resultados de consulta ficam guardados por chave
// (tipo de entidade + filtro opcional), mutações invalidam o tipo inteiro e
// requisições concorrentes pela mesma chave são deduplicadas.
package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Tipos de entidade usados como parte da chave de cache
const (
	KindCompanies  = "companies"
	KindContacts   = "contacts"
	KindDeals      = "deals"
	KindActivities = "activities"
	KindProfiles   = "profiles"
	KindDashboard  = "dashboard"
)

// Key identifica um resultado de consulta: tipo de entidade e filtro
// opcional (ex.: estágio do funil, id da empresa pai).
type Key struct {
	Kind   string
	Filter string
}

func (k Key) String() string {
	if k.Filter == "" {
		return k.Kind
	}
	return fmt.Sprintf("%s:%s", k.Kind, k.Filter)
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store é o cache de consultas injetável. Não há atualização otimista:
// invalidar força o próximo leitor a buscar a lista completa de novo.
type Store struct {
	ttl time.Duration

	mu       sync.RWMutex
	entries  map[Key]*entry
	lastErr  map[Key]error
	interest map[Key]int

	group singleflight.Group
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		entries:  make(map[Key]*entry),
		lastErr:  make(map[Key]error),
		interest: make(map[Key]int),
	}
}

// GetOrFetch devolve o valor em cache quando ainda fresco; caso contrário
// executa fetch. Chamadas concorrentes pela mesma chave compartilham uma
// única execução de fetch.
func (s *Store) GetOrFetch(key Key, fetch func() (any, error)) (any, error) {
	if value, ok := s.fresh(key); ok {
		return value, nil
	}

	value, err, _ := s.group.Do(key.String(), func() (any, error) {
		// Revalidar dentro do voo: outro chamador pode ter preenchido
		if value, ok := s.fresh(key); ok {
			return value, nil
		}

		value, err := fetch()

		s.mu.Lock()
		defer s.mu.Unlock()

		if err != nil {
			// Erros não são cacheados: a próxima leitura tenta de novo
			s.lastErr[key] = err
			delete(s.entries, key)
			return nil, err
		}

		s.entries[key] = &entry{value: value, fetchedAt: time.Now()}
		delete(s.lastErr, key)
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) fresh(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	if s.ttl > 0 && time.Since(e.fetchedAt) > s.ttl {
		return nil, false
	}

	return e.value, true
}

// Prime grava um valor diretamente, sem passar por fetch. Usado pelo
// agendador para aquecer o cache do dashboard.
func (s *Store) Prime(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &entry{value: value, fetchedAt: time.Now()}
	delete(s.lastErr, key)
}

// Invalidate descarta uma chave específica.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	delete(s.lastErr, key)
}

// InvalidateKind descarta todas as chaves de um tipo de entidade,
// inclusive as filtradas. Toda mutação bem-sucedida chama isto.
func (s *Store) InvalidateKind(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if key.Kind == kind {
			delete(s.entries, key)
		}
	}
	for key := range s.lastErr {
		if key.Kind == kind {
			delete(s.lastErr, key)
		}
	}
}

// Err devolve a última falha de busca registrada para a chave, se houver.
func (s *Store) Err(key Key) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr[key]
}

// Subscribe declara interesse em uma chave enquanto o consumidor estiver
// montado. Quando o interesse chega a zero a entrada é descartada, de modo
// que consultas atreladas a um diálogo fechado não ficam retidas.
func (s *Store) Subscribe(key Key) (release func()) {
	s.mu.Lock()
	s.interest[key]++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			s.interest[key]--
			if s.interest[key] <= 0 {
				delete(s.interest, key)
				delete(s.entries, key)
				delete(s.lastErr, key)
			}
		})
	}
}

// Fetch é o invólucro tipado de GetOrFetch.
func Fetch[T any](s *Store, key Key, fetch func() (T, error)) (T, error) {
	value, err := s.GetOrFetch(key, func() (any, error) {
		return fetch()
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return value.(T), nil
}
