package domain

// DashboardStats é um agregado derivado, não persistido, recalculado
// a partir do conjunto atual de negociações a cada requisição.
type DashboardStats struct {
	TotalDeals     int     `json:"total_deals"`
	TotalValue     float64 `json:"total_value"`
	WonDeals       int     `json:"won_deals"`
	WonValue       float64 `json:"won_value"`
	NewLeads       int     `json:"new_leads"`
	ConversionRate int     `json:"conversion_rate"`
}
