package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/pkg/utils"
)

const profilesTable = "profiles"

type ProfileRepository interface {
	ListProfiles() ([]*domain.User, error)
	GetProfileByID(id string) (*domain.User, error)
	GetProfileByEmail(email string) (*domain.User, error)
	CreateProfile(user *domain.User) (*domain.User, error)
	UpdateProfile(id string, req *domain.UpdateProfileRequest) (*domain.User, error)
	UpdatePassword(id string, passwordHash string) error
}

type profileRepository struct {
	conn *postgres.Connection
}

func NewProfileRepository(conn *postgres.Connection) ProfileRepository {
	return &profileRepository{
		conn: conn,
	}
}

func (r *profileRepository) ListProfiles() ([]*domain.User, error) {
	queryBuilder := squirrel.
		Select("id", "name", "email", "avatar", "created_at", "updated_at").
		From(profilesTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	profilesSQL, profilesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(profilesSQL, profilesArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var (
			user      domain.User
			avatar    sql.NullString
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)

		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&avatar,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, err
		}

		user.Avatar = nullableString(avatar)
		user.CreatedAt = timeOrNow(createdAt)
		user.UpdatedAt = timeOrNow(updatedAt)

		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *profileRepository) GetProfileByID(id string) (*domain.User, error) {
	return r.getProfile("id", id)
}

func (r *profileRepository) GetProfileByEmail(email string) (*domain.User, error) {
	return r.getProfile("email", email)
}

func (r *profileRepository) getProfile(column, value string) (*domain.User, error) {
	queryBuilder := squirrel.
		Select("id", "name", "email", "avatar", "password_hash", "created_at", "updated_at").
		From(profilesTable).
		Where(squirrel.Eq{column: value}).
		PlaceholderFormat(squirrel.Dollar)

	profilesSQL, profilesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	var (
		user         domain.User
		avatar       sql.NullString
		passwordHash sql.NullString
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err = r.conn.QueryRow(profilesSQL, profilesArgs...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&avatar,
		&passwordHash,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Avatar = nullableString(avatar)
	user.CreatedAt = timeOrNow(createdAt)
	user.UpdatedAt = timeOrNow(updatedAt)

	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}

	return &user, nil
}

func (r *profileRepository) CreateProfile(user *domain.User) (*domain.User, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID do perfil")
	}

	queryBuilder := squirrel.
		Insert(profilesTable).
		Columns("id", "name", "email", "avatar", "password_hash").
		Values(id, user.Name, user.Email, user.Avatar, user.PasswordHash).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	profilesSQL, profilesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.conn.QueryRow(profilesSQL, profilesArgs...).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *profileRepository) UpdateProfile(id string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	queryBuilder := squirrel.
		Update(profilesTable).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})

	if req.Name != nil && *req.Name != "" {
		queryBuilder = queryBuilder.Set("name", *req.Name)
	}

	if req.Avatar != nil {
		queryBuilder = queryBuilder.Set("avatar", req.Avatar)
	}

	profilesSQL, profilesArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.Exec(profilesSQL, profilesArgs...); err != nil {
		return nil, err
	}

	return r.GetProfileByID(id)
}

func (r *profileRepository) UpdatePassword(id string, passwordHash string) error {
	queryBuilder := squirrel.
		Update(profilesTable).
		Set("password_hash", passwordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	profilesSQL, profilesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(profilesSQL, profilesArgs...)
	return err
}
