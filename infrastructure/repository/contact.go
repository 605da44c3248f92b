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

type ContactRepository interface {
	ListContacts() ([]*domain.Contact, error)
	ListContactsByCompany(companyID string) ([]*domain.Contact, error)
	GetContactByID(id string) (*domain.Contact, error)
	CreateContact(contact *domain.Contact, companyID string) (*domain.Contact, error)
	UpdateContact(id string, req *domain.UpdateContactRequest) (*domain.Contact, error)
	DeleteContact(id string) error
}

type contactRepository struct {
	conn *postgres.Connection
}

func NewContactRepository(conn *postgres.Connection) ContactRepository {
	return &contactRepository{
		conn: conn,
	}
}

func (r *contactRepository) ListContacts() ([]*domain.Contact, error) {
	return r.listContacts(squirrel.Eq{})
}

func (r *contactRepository) ListContactsByCompany(companyID string) ([]*domain.Contact, error) {
	return r.listContacts(squirrel.Eq{"company_id": companyID})
}

func (r *contactRepository) listContacts(where squirrel.Eq) ([]*domain.Contact, error) {
	queryBuilder := squirrel.
		Select("id", "name", "email", "phone", "position", "avatar", "company_id", "created_at", "updated_at").
		From(contactsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(where) > 0 {
		queryBuilder = queryBuilder.Where(where)
	}

	contactsSQL, contactsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(contactsSQL, contactsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		contact, companyID, err := scanContact(rows)
		if err != nil {
			return nil, err
		}

		contact.Company = r.resolveCompany(companyID)
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *contactRepository) GetContactByID(id string) (*domain.Contact, error) {
	row := r.conn.QueryRow(
		"SELECT id, name, email, phone, position, avatar, company_id, created_at, updated_at FROM contacts WHERE id = $1",
		id,
	)

	contact, companyID, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	contact.Company = r.resolveCompany(companyID)

	return contact, nil
}

func (r *contactRepository) CreateContact(contact *domain.Contact, companyID string) (*domain.Contact, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID do contato")
	}

	queryBuilder := squirrel.
		Insert(contactsTable).
		Columns("id", "name", "email", "phone", "position", "avatar", "company_id").
		Values(id, contact.Name, contact.Email, contact.Phone, contact.Position, contact.Avatar, companyID).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	contactsSQL, contactsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.conn.QueryRow(contactsSQL, contactsArgs...).Scan(
		&contact.ID,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.Company = r.resolveCompany(&companyID)

	return contact, nil
}

func (r *contactRepository) UpdateContact(id string, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	queryBuilder := squirrel.
		Update(contactsTable).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})

	if req.Name != nil && *req.Name != "" {
		queryBuilder = queryBuilder.Set("name", *req.Name)
	}

	if req.Email != nil && *req.Email != "" {
		queryBuilder = queryBuilder.Set("email", *req.Email)
	}

	if req.Phone != nil {
		queryBuilder = queryBuilder.Set("phone", req.Phone)
	}

	if req.Position != nil {
		queryBuilder = queryBuilder.Set("position", req.Position)
	}

	if req.Avatar != nil {
		queryBuilder = queryBuilder.Set("avatar", req.Avatar)
	}

	if req.CompanyID != nil && *req.CompanyID != "" {
		queryBuilder = queryBuilder.Set("company_id", *req.CompanyID)
	}

	contactsSQL, contactsArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.Exec(contactsSQL, contactsArgs...); err != nil {
		return nil, err
	}

	return r.GetContactByID(id)
}

func (r *contactRepository) DeleteContact(id string) error {
	queryBuilder := squirrel.
		Delete(contactsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	contactsSQL, contactsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(contactsSQL, contactsArgs...)
	return err
}

// resolveCompany resolve a referência fraca de empresa do contato.
// Uma referência ausente ou quebrada degrada para o sentinela, nunca para nil.
func (r *contactRepository) resolveCompany(companyID *string) *domain.Company {
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
			logrus.Warnf("Erro ao buscar empresa %s do contato: %v", *companyID, err)
		}
		return domain.UnknownCompany(*companyID)
	}

	return company
}

func scanContact(s scanner) (*domain.Contact, *string, error) {
	var (
		contact   domain.Contact
		phone     sql.NullString
		position  sql.NullString
		avatar    sql.NullString
		companyID sql.NullString
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := s.Scan(
		&contact.ID,
		&contact.Name,
		&contact.Email,
		&phone,
		&position,
		&avatar,
		&companyID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, nil, err
	}

	contact.Phone = nullableString(phone)
	contact.Position = nullableString(position)
	contact.Avatar = nullableString(avatar)
	contact.CreatedAt = timeOrNow(createdAt)
	contact.UpdatedAt = timeOrNow(updatedAt)

	return &contact, nullableString(companyID), nil
}
