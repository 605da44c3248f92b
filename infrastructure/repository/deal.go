package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/pkg/utils"
)

const dealsTable = "deals"

type DealRepository interface {
	ListDeals() ([]*domain.Deal, error)
	ListDealsByStage(stage domain.Stage) ([]*domain.Deal, error)
	ListDealsByCompany(companyID string) ([]*domain.Deal, error)
	ListDealsByPeriod(startDate, endDate *time.Time) ([]*domain.Deal, error)
	GetDealByID(id string) (*domain.Deal, error)
	CreateDeal(deal *domain.Deal, companyID string, assignedTo *string) (*domain.Deal, error)
	UpdateDeal(id string, req *domain.UpdateDealRequest) (*domain.Deal, error)
	DeleteDeal(id string) error
}

type dealRepository struct {
	conn *postgres.Connection
}

func NewDealRepository(conn *postgres.Connection) DealRepository {
	return &dealRepository{
		conn: conn,
	}
}

func (r *dealRepository) ListDeals() ([]*domain.Deal, error) {
	return r.listDeals(nil)
}

func (r *dealRepository) ListDealsByStage(stage domain.Stage) ([]*domain.Deal, error) {
	return r.listDeals(squirrel.Eq{"stage": stage})
}

func (r *dealRepository) ListDealsByCompany(companyID string) ([]*domain.Deal, error) {
	return r.listDeals(squirrel.Eq{"company_id": companyID})
}

// ListDealsByPeriod filtra pela data de criação. Datas zeradas deixam a
// respectiva ponta do período em aberto; a data final inclui o dia inteiro.
func (r *dealRepository) ListDealsByPeriod(startDate, endDate *time.Time) ([]*domain.Deal, error) {
	conditions := squirrel.And{}

	if startDate != nil && !startDate.IsZero() {
		conditions = append(conditions, squirrel.GtOrEq{"created_at": *startDate})
	}

	if endDate != nil && !endDate.IsZero() {
		conditions = append(conditions, squirrel.Lt{"created_at": endDate.AddDate(0, 0, 1)})
	}

	if len(conditions) == 0 {
		return r.listDeals(nil)
	}

	return r.listDeals(conditions)
}

func (r *dealRepository) listDeals(where squirrel.Sqlizer) ([]*domain.Deal, error) {
	queryBuilder := squirrel.
		Select("id", "title", "value", "stage", "company_id", "assigned_to", "description", "created_at", "updated_at").
		From(dealsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		queryBuilder = queryBuilder.Where(where)
	}

	dealsSQL, dealsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(dealsSQL, dealsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		deal, companyID, assignedTo, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}

		deal.Company = r.resolveCompany(companyID)
		deal.AssignedTo = r.resolveAssignee(assignedTo)
		deals = append(deals, deal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deals, nil
}

func (r *dealRepository) GetDealByID(id string) (*domain.Deal, error) {
	row := r.conn.QueryRow(
		"SELECT id, title, value, stage, company_id, assigned_to, description, created_at, updated_at FROM deals WHERE id = $1",
		id,
	)

	deal, companyID, assignedTo, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	deal.Company = r.resolveCompany(companyID)
	deal.AssignedTo = r.resolveAssignee(assignedTo)

	return deal, nil
}

func (r *dealRepository) CreateDeal(deal *domain.Deal, companyID string, assignedTo *string) (*domain.Deal, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID da negociação")
	}

	queryBuilder := squirrel.
		Insert(dealsTable).
		Columns("id", "title", "value", "stage", "company_id", "assigned_to", "description").
		Values(id, deal.Title, deal.Value, deal.Stage, companyID, assignedTo, deal.Description).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	dealsSQL, dealsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.conn.QueryRow(dealsSQL, dealsArgs...).Scan(
		&deal.ID,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	deal.Company = r.resolveCompany(&companyID)
	deal.AssignedTo = r.resolveAssignee(assignedTo)

	return deal, nil
}

func (r *dealRepository) UpdateDeal(id string, req *domain.UpdateDealRequest) (*domain.Deal, error) {
	queryBuilder := squirrel.
		Update(dealsTable).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})

	if req.Title != nil && *req.Title != "" {
		queryBuilder = queryBuilder.Set("title", *req.Title)
	}

	if req.Value != nil {
		queryBuilder = queryBuilder.Set("value", *req.Value)
	}

	if req.Stage != nil {
		queryBuilder = queryBuilder.Set("stage", *req.Stage)
	}

	if req.CompanyID != nil && *req.CompanyID != "" {
		queryBuilder = queryBuilder.Set("company_id", *req.CompanyID)
	}

	if req.AssignedTo != nil {
		queryBuilder = queryBuilder.Set("assigned_to", req.AssignedTo)
	}

	if req.Description != nil {
		queryBuilder = queryBuilder.Set("description", req.Description)
	}

	dealsSQL, dealsArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.Exec(dealsSQL, dealsArgs...); err != nil {
		return nil, err
	}

	return r.GetDealByID(id)
}

func (r *dealRepository) DeleteDeal(id string) error {
	queryBuilder := squirrel.
		Delete(dealsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	dealsSQL, dealsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(dealsSQL, dealsArgs...)
	return err
}

func (r *dealRepository) resolveCompany(companyID *string) *domain.Company {
	if companyID == nil || *companyID == "" {
		return domain.UnknownCompany("")
	}

	row := r.conn.QueryRow(
		"SELECT id, name, logo, industry, website, size, created_at, updated_at FROM companies WHERE id = $1",
		*companyID,
	)

	company, err := scanCompany(row)
	if err != nil {
		if err != sql.ErrNoRows {
			logrus.Warnf("Erro ao buscar empresa %s da negociação: %v", *companyID, err)
		}
		return domain.UnknownCompany(*companyID)
	}

	return company
}

// resolveAssignee resolve o responsável pela negociação. Negociações sem
// responsável recebem o sentinela "Unassigned"; referências quebradas
// degradam para "Unknown User" em vez de bloquear a listagem.
func (r *dealRepository) resolveAssignee(assignedTo *string) *domain.User {
	if assignedTo == nil || *assignedTo == "" {
		return domain.UnassignedUser()
	}

	row := r.conn.QueryRow(
		"SELECT id, name, email, avatar FROM profiles WHERE id = $1",
		*assignedTo,
	)

	var (
		user   domain.User
		avatar sql.NullString
	)

	err := row.Scan(&user.ID, &user.Name, &user.Email, &avatar)
	if err != nil {
		if err != sql.ErrNoRows {
			logrus.Warnf("Erro ao buscar responsável %s da negociação: %v", *assignedTo, err)
		}
		return domain.UnknownUser(*assignedTo)
	}

	user.Avatar = nullableString(avatar)

	return &user
}

func scanDeal(s scanner) (*domain.Deal, *string, *string, error) {
	var (
		deal        domain.Deal
		stage       string
		companyID   sql.NullString
		assignedTo  sql.NullString
		description sql.NullString
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
	)

	err := s.Scan(
		&deal.ID,
		&deal.Title,
		&deal.Value,
		&stage,
		&companyID,
		&assignedTo,
		&description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	deal.Stage = domain.Stage(stage)
	deal.Description = nullableString(description)
	deal.CreatedAt = timeOrNow(createdAt)
	deal.UpdatedAt = timeOrNow(updatedAt)

	// Valores negativos não entram pelo formulário, mas linhas antigas
	// podem conter lixo: coagir para não-negativo na leitura
	if deal.Value < 0 {
		deal.Value = 0
	}

	return &deal, nullableString(companyID), nullableString(assignedTo), nil
}
