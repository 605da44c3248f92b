package domain

import "time"

// ActivityType identifica a ação que gerou o registro de auditoria.
type ActivityType string

const (
	ActivityDealCreated      ActivityType = "deal_created"
	ActivityDealUpdated      ActivityType = "deal_updated"
	ActivityDealStageChanged ActivityType = "deal_stage_changed"
	ActivityContactAdded     ActivityType = "contact_added"
	ActivityCompanyAdded     ActivityType = "company_added"
)

// EntityType identifica o tipo do registro referenciado por uma atividade.
type EntityType string

const (
	EntityDeal    EntityType = "deal"
	EntityContact EntityType = "contact"
	EntityCompany EntityType = "company"
)

// Activity é um registro imutável de auditoria de uma ação passada.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	User        *User        `json:"user"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	EntityID    *string      `json:"entity_id,omitempty"`
	EntityType  *EntityType  `json:"entity_type,omitempty"`
}
