package dashboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/infrastructure/repository/mocks"
	"github.com/vfg2006/crm-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name  string
		deals []*domain.Deal
		want  domain.DashboardStats
	}{
		{
			name:  "Sem negociações a taxa de conversão é zero",
			deals: nil,
			want:  domain.DashboardStats{},
		},
		{
			name: "Agregados refletem valores e estágios",
			deals: []*domain.Deal{
				{Value: 5000, Stage: domain.StageLead},
				{Value: 3000, Stage: domain.StageWon},
				{Value: 2000, Stage: domain.StageNegotiation},
			},
			want: domain.DashboardStats{
				TotalDeals:     3,
				TotalValue:     10000,
				WonDeals:       1,
				WonValue:       3000,
				NewLeads:       1,
				ConversionRate: 33,
			},
		},
		{
			name: "Taxa de conversão arredonda para o inteiro mais próximo",
			deals: []*domain.Deal{
				{Stage: domain.StageWon},
				{Stage: domain.StageWon},
				{Stage: domain.StageLost},
			},
			want: domain.DashboardStats{
				TotalDeals:     3,
				WonDeals:       2,
				ConversionRate: 67,
			},
		},
		{
			name: "Todas ganhas resulta em 100%",
			deals: []*domain.Deal{
				{Value: 100, Stage: domain.StageWon},
			},
			want: domain.DashboardStats{
				TotalDeals:     1,
				TotalValue:     100,
				WonDeals:       1,
				WonValue:       100,
				ConversionRate: 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.deals)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestService_GetDashboardStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	service := &Service{dealRepo: mockRepo}

	mockRepo.EXPECT().ListDeals().Return([]*domain.Deal{
		{Value: 5000, Stage: domain.StageLead},
		{Value: 1000, Stage: domain.StageWon},
	}, nil)

	stats, err := service.GetDashboardStats()

	assert.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDeals)
	assert.Equal(t, float64(6000), stats.TotalValue)
	assert.Equal(t, 1, stats.NewLeads)
	assert.Equal(t, 50, stats.ConversionRate)
}
