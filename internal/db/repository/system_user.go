package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// SystemUserRepo implements domain.SystemUserRepository.
type SystemUserRepo struct {
	db DBTX
}

const systemUserColumns = `id, user_guid, user_identifier, identity_source, display_name, email, record_end_date`

// scanSystemUser reads one system_user row.
func scanSystemUser(row interface{ Scan(...any) error }) (*domain.SystemUser, error) {
	var (
		u      domain.SystemUser
		guid   sql.NullString
		source string
	)
	if err := row.Scan(&u.ID, &guid, &u.UserIdentifier, &source, &u.DisplayName, &u.Email, &u.RecordEndDate); err != nil {
		return nil, err
	}
	if guid.Valid {
		u.UserGUID = &guid.String
	}
	u.IdentitySource = domain.IdentitySource(source)
	return &u, nil
}

// loadRoles attaches the user's system roles with set semantics.
func (r *SystemUserRepo) loadRoles(ctx context.Context, u *domain.SystemUser) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT sr.id, sr.name
		FROM system_user_role ur
		JOIN system_role sr ON sr.id = ur.system_role_id
		WHERE ur.system_user_id = ?
		ORDER BY sr.id`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		u.RoleIDs = append(u.RoleIDs, domain.SystemRoleID(id))
		u.RoleNames = append(u.RoleNames, name)
	}
	return rows.Err()
}

// getOne runs a single-row system_user query and attaches roles.
func (r *SystemUserRepo) getOne(ctx context.Context, query string, args ...any) (*domain.SystemUser, error) {
	u, err := scanSystemUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := r.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByGUID returns the user for an external GUID, preferring the active row
// over end-dated ones.
func (r *SystemUserRepo) GetByGUID(ctx context.Context, guid string) (*domain.SystemUser, error) {
	return r.getOne(ctx, `
		SELECT `+systemUserColumns+` FROM system_user
		WHERE user_guid = ?
		ORDER BY (record_end_date IS NULL) DESC, id DESC
		LIMIT 1`, guid)
}

// GetByIdentifier returns the user for a (identifier, source) pair. The
// identifier must already be lowercased by the caller.
func (r *SystemUserRepo) GetByIdentifier(ctx context.Context, identifier string, source domain.IdentitySource) (*domain.SystemUser, error) {
	return r.getOne(ctx, `
		SELECT `+systemUserColumns+` FROM system_user
		WHERE user_identifier = ? AND identity_source = ?
		ORDER BY (record_end_date IS NULL) DESC, id DESC
		LIMIT 1`, identifier, string(source))
}

// GetByID returns the user with the given internal id.
func (r *SystemUserRepo) GetByID(ctx context.Context, id int64) (*domain.SystemUser, error) {
	return r.getOne(ctx, `SELECT `+systemUserColumns+` FROM system_user WHERE id = ?`, id)
}

// List returns all system users, active and end-dated, with their roles.
func (r *SystemUserRepo) List(ctx context.Context) ([]domain.SystemUser, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+systemUserColumns+` FROM system_user ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.SystemUser
	for rows.Next() {
		u, err := scanSystemUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		if err := r.loadRoles(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Insert creates an active system user row attributed to actorID.
func (r *SystemUserRepo) Insert(ctx context.Context, actorID int64, u *domain.SystemUser) (*domain.SystemUser, error) {
	var guid sql.NullString
	if u.UserGUID != nil && *u.UserGUID != "" {
		guid = nullString(*u.UserGUID)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO system_user (user_guid, user_identifier, identity_source, display_name, email, create_user)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		guid, u.UserIdentifier, string(u.IdentitySource), u.DisplayName, u.Email, nullInt64(actorID),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExecution("failed to insert system user")
		}
		return nil, mapDBError(err)
	}

	return r.GetByID(ctx, id)
}

// Reactivate clears the record end date of an end-dated user.
func (r *SystemUserRepo) Reactivate(ctx context.Context, actorID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE system_user
		SET record_end_date = NULL, update_date = CURRENT_TIMESTAMP, update_user = ?
		WHERE id = ? AND record_end_date IS NOT NULL`,
		nullInt64(actorID), id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return domain.ErrExecution("failed to activate system user %d", id)
	}
	return nil
}

// Deactivate end-dates an active user.
func (r *SystemUserRepo) Deactivate(ctx context.Context, actorID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE system_user
		SET record_end_date = CURRENT_TIMESTAMP, update_date = CURRENT_TIMESTAMP, update_user = ?
		WHERE id = ? AND record_end_date IS NULL`,
		nullInt64(actorID), id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return domain.ErrExecution("failed to deactivate system user %d", id)
	}
	return nil
}
