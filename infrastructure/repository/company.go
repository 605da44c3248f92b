package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/pkg/utils"
)

const (
	companiesTable = "companies"
	contactsTable  = "contacts"
)

type CompanyRepository interface {
	ListCompanies() ([]*domain.Company, error)
	GetCompanyByID(id string) (*domain.Company, error)
	CreateCompany(company *domain.Company) (*domain.Company, error)
	UpdateCompany(id string, req *domain.UpdateCompanyRequest) (*domain.Company, error)
	DeleteCompany(id string) error
}

type companyRepository struct {
	conn *postgres.Connection
}

func NewCompanyRepository(conn *postgres.Connection) CompanyRepository {
	return &companyRepository{
		conn: conn,
	}
}

func (r *companyRepository) ListCompanies() ([]*domain.Company, error) {
	queryBuilder := squirrel.
		Select("id", "name", "logo", "industry", "website", "size", "created_at", "updated_at").
		From(companiesTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	companiesSQL, companiesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(companiesSQL, companiesArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}

		// Buscar contatos da empresa
		contacts, err := r.listCompanyContacts(company)
		if err != nil {
			logrus.Warnf("Erro ao buscar contatos da empresa %s: %v", company.ID, err)
			// Continua mesmo com erro, apenas com a lista vazia
		} else {
			company.Contacts = contacts
		}

		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

func (r *companyRepository) GetCompanyByID(id string) (*domain.Company, error) {
	row := r.conn.QueryRow(
		"SELECT id, name, logo, industry, website, size, created_at, updated_at FROM companies WHERE id = $1",
		id,
	)

	company, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	contacts, err := r.listCompanyContacts(company)
	if err != nil {
		logrus.Warnf("Erro ao buscar contatos da empresa %s: %v", company.ID, err)
	} else {
		company.Contacts = contacts
	}

	return company, nil
}

func (r *companyRepository) CreateCompany(company *domain.Company) (*domain.Company, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID da empresa")
	}

	if company.Industry == "" {
		company.Industry = "Unknown"
	}

	queryBuilder := squirrel.
		Insert(companiesTable).
		Columns("id", "name", "logo", "industry", "website", "size").
		Values(id, company.Name, company.Logo, company.Industry, company.Website, company.Size).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	companiesSQL, companiesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.conn.QueryRow(companiesSQL, companiesArgs...).Scan(
		&company.ID,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Uma empresa recém-criada ainda não possui contatos
	company.Contacts = []*domain.Contact{}

	return company, nil
}

func (r *companyRepository) UpdateCompany(id string, req *domain.UpdateCompanyRequest) (*domain.Company, error) {
	queryBuilder := squirrel.
		Update(companiesTable).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})

	if req.Name != nil && *req.Name != "" {
		queryBuilder = queryBuilder.Set("name", *req.Name)
	}

	if req.Logo != nil {
		queryBuilder = queryBuilder.Set("logo", req.Logo)
	}

	if req.Industry != nil && *req.Industry != "" {
		queryBuilder = queryBuilder.Set("industry", *req.Industry)
	}

	if req.Website != nil {
		queryBuilder = queryBuilder.Set("website", req.Website)
	}

	if req.Size != nil {
		queryBuilder = queryBuilder.Set("size", req.Size)
	}

	companiesSQL, companiesArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.Exec(companiesSQL, companiesArgs...); err != nil {
		return nil, err
	}

	return r.GetCompanyByID(id)
}

func (r *companyRepository) DeleteCompany(id string) error {
	queryBuilder := squirrel.
		Delete(companiesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	companiesSQL, companiesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(companiesSQL, companiesArgs...)
	return err
}

// listCompanyContacts busca os contatos pertencentes à empresa. A lista é
// sempre preenchida por consulta separada, nunca desnormalizada na linha.
func (r *companyRepository) listCompanyContacts(company *domain.Company) ([]*domain.Contact, error) {
	queryBuilder := squirrel.
		Select("id", "name", "email", "phone", "position", "avatar", "created_at", "updated_at").
		From(contactsTable).
		Where(squirrel.Eq{"company_id": company.ID}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	contactsSQL, contactsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(contactsSQL, contactsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		var (
			contact   domain.Contact
			phone     sql.NullString
			position  sql.NullString
			avatar    sql.NullString
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)

		if err := rows.Scan(
			&contact.ID,
			&contact.Name,
			&contact.Email,
			&phone,
			&position,
			&avatar,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, err
		}

		contact.Phone = nullableString(phone)
		contact.Position = nullableString(position)
		contact.Avatar = nullableString(avatar)
		contact.CreatedAt = timeOrNow(createdAt)
		contact.UpdatedAt = timeOrNow(updatedAt)

		// Referência rasa para evitar recursão empresa -> contatos -> empresa
		contact.Company = &domain.Company{
			ID:        company.ID,
			Name:      company.Name,
			Logo:      company.Logo,
			Industry:  company.Industry,
			Website:   company.Website,
			Size:      company.Size,
			CreatedAt: company.CreatedAt,
			UpdatedAt: company.UpdatedAt,
			Contacts:  []*domain.Contact{},
		}

		contacts = append(contacts, &contact)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}

// scanner abstrai *sql.Row e *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(s scanner) (*domain.Company, error) {
	var (
		company   domain.Company
		logo      sql.NullString
		industry  sql.NullString
		website   sql.NullString
		size      sql.NullString
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := s.Scan(
		&company.ID,
		&company.Name,
		&logo,
		&industry,
		&website,
		&size,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	company.Logo = nullableString(logo)
	company.Website = nullableString(website)
	company.Size = nullableString(size)
	company.CreatedAt = timeOrNow(createdAt)
	company.UpdatedAt = timeOrNow(updatedAt)
	company.Contacts = []*domain.Contact{}

	// Indústria ausente vira "Unknown" no domínio
	if industry.Valid && industry.String != "" {
		company.Industry = industry.String
	} else {
		company.Industry = "Unknown"
	}

	return &company, nil
}

func nullableString(v sql.NullString) *string {
	if v.Valid && v.String != "" {
		value := v.String
		return &value
	}
	return nil
}

// timeOrNow devolve o valor da coluna ou o instante atual quando nula
func timeOrNow(v sql.NullTime) time.Time {
	if v.Valid {
		return v.Time
	}
	return time.Now()
}
