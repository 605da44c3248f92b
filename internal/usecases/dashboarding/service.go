package dashboarding

import (
	"math"

	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/domain"
)

type DashboardService interface {
	GetDashboardStats() (*domain.DashboardStats, error)
}

type Service struct {
	dealRepo repository.DealRepository
	store    *cache.Store
	useCache bool
}

func NewService(dealRepo repository.DealRepository) DashboardService {
	return &Service{
		dealRepo: dealRepo,
	}
}

// WithCache habilita a camada de cache para as estatísticas do dashboard
func (s *Service) WithCache(store *cache.Store) *Service {
	s.store = store
	s.useCache = store != nil
	return s
}

func (s *Service) GetDashboardStats() (*domain.DashboardStats, error) {
	fetch := func() (*domain.DashboardStats, error) {
		deals, err := s.dealRepo.ListDeals()
		if err != nil {
			return nil, err
		}
		return ComputeStats(deals), nil
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindDashboard}, fetch)
	}

	return fetch()
}

// ComputeStats agrega o conjunto completo de negociações em uma passada.
// A taxa de conversão é o percentual inteiro arredondado de negociações
// ganhas sobre o total; sem negociações, a taxa é zero.
func ComputeStats(deals []*domain.Deal) *domain.DashboardStats {
	stats := &domain.DashboardStats{
		TotalDeals: len(deals),
	}

	for _, deal := range deals {
		stats.TotalValue += deal.Value

		switch deal.Stage {
		case domain.StageWon:
			stats.WonDeals++
			stats.WonValue += deal.Value
		case domain.StageLead:
			stats.NewLeads++
		}
	}

	if stats.TotalDeals > 0 {
		stats.ConversionRate = int(math.Round(float64(stats.WonDeals) / float64(stats.TotalDeals) * 100))
	}

	return stats
}
