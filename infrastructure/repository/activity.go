package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/pkg/utils"
)

const activitiesTable = "activities"

// DefaultActivityLimit limita o feed de atividades recentes
const DefaultActivityLimit = 20

type ActivityRepository interface {
	ListActivities(limit int) ([]*domain.Activity, error)
	ListActivitiesByEntity(entityType domain.EntityType, entityID string, limit int) ([]*domain.Activity, error)
	CreateActivity(activity *domain.Activity, userID *string) (*domain.Activity, error)
}

type activityRepository struct {
	conn *postgres.Connection
}

func NewActivityRepository(conn *postgres.Connection) ActivityRepository {
	return &activityRepository{
		conn: conn,
	}
}

func (r *activityRepository) ListActivities(limit int) ([]*domain.Activity, error) {
	return r.listActivities(squirrel.Eq{}, limit)
}

func (r *activityRepository) ListActivitiesByEntity(entityType domain.EntityType, entityID string, limit int) ([]*domain.Activity, error) {
	return r.listActivities(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}, limit)
}

func (r *activityRepository) listActivities(where squirrel.Eq, limit int) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	queryBuilder := squirrel.
		Select("id", "type", "user_id", "description", "timestamp", "entity_id", "entity_type").
		From(activitiesTable).
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if len(where) > 0 {
		queryBuilder = queryBuilder.Where(where)
	}

	activitiesSQL, activitiesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(activitiesSQL, activitiesArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		var (
			activity   domain.Activity
			userID     sql.NullString
			timestamp  sql.NullTime
			entityID   sql.NullString
			entityType sql.NullString
		)

		if err := rows.Scan(
			&activity.ID,
			&activity.Type,
			&userID,
			&activity.Description,
			&timestamp,
			&entityID,
			&entityType,
		); err != nil {
			return nil, err
		}

		activity.Timestamp = timeOrNow(timestamp)
		activity.EntityID = nullableString(entityID)

		if entityType.Valid && entityType.String != "" {
			et := domain.EntityType(entityType.String)
			activity.EntityType = &et
		}

		activity.User = r.resolveActor(nullableString(userID))

		activities = append(activities, &activity)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) CreateActivity(activity *domain.Activity, userID *string) (*domain.Activity, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID da atividade")
	}

	queryBuilder := squirrel.
		Insert(activitiesTable).
		Columns("id", "type", "user_id", "description", "entity_id", "entity_type").
		Values(id, activity.Type, userID, activity.Description, activity.EntityID, activity.EntityType).
		Suffix("RETURNING id, timestamp").
		PlaceholderFormat(squirrel.Dollar)

	activitiesSQL, activitiesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.conn.QueryRow(activitiesSQL, activitiesArgs...).Scan(
		&activity.ID,
		&activity.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	activity.User = r.resolveActor(userID)

	return activity, nil
}

// resolveActor resolve o autor da atividade. Atividades sem usuário são
// atribuídas ao sentinela "System".
func (r *activityRepository) resolveActor(userID *string) *domain.User {
	if userID == nil || *userID == "" {
		return domain.SystemUser()
	}

	row := r.conn.QueryRow(
		"SELECT id, name, email, avatar FROM profiles WHERE id = $1",
		*userID,
	)

	var (
		user   domain.User
		avatar sql.NullString
	)

	err := row.Scan(&user.ID, &user.Name, &user.Email, &avatar)
	if err != nil {
		if err != sql.ErrNoRows {
			logrus.Warnf("Erro ao buscar usuário %s da atividade: %v", *userID, err)
		}
		return domain.UnknownUser(*userID)
	}

	user.Avatar = nullableString(avatar)

	return &user
}
