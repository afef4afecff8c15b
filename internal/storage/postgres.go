package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cassiama/ProjectLISA/internal"
)

// PostgresStorage persists users in a users table, devices with their two
// usage logs as jsonb columns, and goals in a device_goals table.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- UserRepository ---

func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, token, first_name, last_name, email, age, occupation, geography, device_count, os, phone_system, points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, user.Token, user.FirstName, user.LastName, user.Email, user.Age, user.Occupation,
		user.Geography, user.DeviceCount, user.OS, user.PhoneSystem, user.TotalPoints, user.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, userID string) (*internal.User, error) {
	return p.getUserBy(ctx, `id = $1`, userID)
}

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	return p.getUserBy(ctx, `email = $1`, email)
}

func (p *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	return p.getUserBy(ctx, `token = $1`, token)
}

func (p *PostgresStorage) getUserBy(ctx context.Context, where string, arg any) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, first_name, last_name, email, age, occupation, geography, device_count, os, phone_system, points, created_at FROM users WHERE `+where, arg)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.FirstName, &u.LastName, &u.Email, &u.Age, &u.Occupation,
		&u.Geography, &u.DeviceCount, &u.OS, &u.PhoneSystem, &u.TotalPoints, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("storage: user: %w", internal.ErrNotFound)
		}
		p.logger.Errorf("failed to query user: %v", err)
		return nil, err
	}
	devices, err := p.ListDevices(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Devices = devices
	return &u, nil
}

func (p *PostgresStorage) AddUserPoints(ctx context.Context, userID string, delta int) error {
	tag, err := p.pool.Exec(ctx, `UPDATE users SET points = points + $1 WHERE id = $2`, delta, userID)
	if err != nil {
		p.logger.Errorf("failed to add user points: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	return nil
}

func (p *PostgresStorage) SubtractUserPoints(ctx context.Context, userID string, n int) error {
	tag, err := p.pool.Exec(ctx, `UPDATE users SET points = points - $1 WHERE id = $2 AND points >= $1`, n, userID)
	if err != nil {
		p.logger.Errorf("failed to subtract user points: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: subtract %d for user %s: %w", n, userID, internal.ErrInsufficientPoints)
	}
	return nil
}

func (p *PostgresStorage) PenalizeUserPoints(ctx context.Context, userID string, n int) (int, error) {
	row := p.pool.QueryRow(ctx, `WITH old AS (SELECT points FROM users WHERE id = $2)
		UPDATE users SET points = GREATEST(points - $1, 0) WHERE id = $2
		RETURNING (SELECT points FROM old) - points`, n, userID)
	var applied int
	if err := row.Scan(&applied); err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
		}
		p.logger.Errorf("failed to penalize user points: %v", err)
		return 0, err
	}
	return applied, nil
}

func (p *PostgresStorage) TopUsers(ctx context.Context, limit int) ([]internal.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, first_name, last_name, points FROM users ORDER BY points DESC LIMIT $1`, limit)
	if err != nil {
		p.logger.Errorf("failed to query top users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []internal.User
	for rows.Next() {
		var u internal.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.TotalPoints); err != nil {
			p.logger.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- DeviceRepository ---

func (p *PostgresStorage) RegisterDevice(ctx context.Context, device *internal.Device) error {
	prevLog, err := json.Marshal(device.PreviousLog)
	if err != nil {
		return err
	}
	curLog, err := json.Marshal(device.CurrentLog)
	if err != nil {
		return err
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO devices (id, user_id, serial_number, name, previous_log, current_log, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		device.ID, device.Owner, device.SerialNumber, device.Name, prevLog, curLog, device.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert device: %v", err)
		return err
	}
	for _, g := range device.Goals {
		_, err = tx.Exec(ctx, `INSERT INTO device_goals (device_id, description, point_cap, accrued_points) VALUES ($1, $2, $3, $4)`,
			device.ID, g.Description, g.PointCap, g.AccruedPoints)
		if err != nil {
			p.logger.Errorf("failed to insert device goal: %v", err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (p *PostgresStorage) GetDevice(ctx context.Context, userID, deviceID string) (*internal.Device, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, user_id, serial_number, name, previous_log, current_log, created_at FROM devices WHERE id = $1 AND user_id = $2`, deviceID, userID)
	d, err := p.scanDevice(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("storage: device %s: %w", deviceID, internal.ErrNotFound)
		}
		p.logger.Errorf("failed to query device: %v", err)
		return nil, err
	}
	if err := p.loadGoals(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *PostgresStorage) ListDevices(ctx context.Context, userID string) ([]internal.Device, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, serial_number, name, previous_log, current_log, created_at FROM devices WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		p.logger.Errorf("failed to query devices: %v", err)
		return nil, err
	}
	defer rows.Close()

	var devices []internal.Device
	for rows.Next() {
		d, err := p.scanDevice(rows)
		if err != nil {
			p.logger.Errorf("failed to scan device: %v", err)
			return nil, err
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range devices {
		if err := p.loadGoals(ctx, &devices[i]); err != nil {
			return nil, err
		}
	}
	return devices, nil
}

func (p *PostgresStorage) scanDevice(row pgx.Row) (*internal.Device, error) {
	var d internal.Device
	var prevLog, curLog []byte
	if err := row.Scan(&d.ID, &d.Owner, &d.SerialNumber, &d.Name, &prevLog, &curLog, &d.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(prevLog, &d.PreviousLog); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(curLog, &d.CurrentLog); err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *PostgresStorage) loadGoals(ctx context.Context, d *internal.Device) error {
	rows, err := p.pool.Query(ctx, `SELECT description, point_cap, accrued_points FROM device_goals WHERE device_id = $1`, d.ID)
	if err != nil {
		p.logger.Errorf("failed to query device goals: %v", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g internal.Goal
		if err := rows.Scan(&g.Description, &g.PointCap, &g.AccruedPoints); err != nil {
			p.logger.Errorf("failed to scan device goal: %v", err)
			return err
		}
		d.Goals = append(d.Goals, g)
	}
	return rows.Err()
}

func (p *PostgresStorage) RemoveDevice(ctx context.Context, userID, deviceID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM devices WHERE id = $1 AND user_id = $2`, deviceID, userID)
	if err != nil {
		p.logger.Errorf("failed to delete device: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: device %s: %w", deviceID, internal.ErrNotFound)
	}
	return nil
}

func (p *PostgresStorage) ReplaceDeviceGoals(ctx context.Context, userID, deviceID string, goals []internal.Goal) error {
	if _, err := p.GetDevice(ctx, userID, deviceID); err != nil {
		return err
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM device_goals WHERE device_id = $1`, deviceID); err != nil {
		p.logger.Errorf("failed to clear device goals: %v", err)
		return err
	}
	for _, g := range goals {
		_, err := tx.Exec(ctx, `INSERT INTO device_goals (device_id, description, point_cap, accrued_points) VALUES ($1, $2, $3, $4)`,
			deviceID, g.Description, g.PointCap, g.AccruedPoints)
		if err != nil {
			p.logger.Errorf("failed to insert device goal: %v", err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (p *PostgresStorage) UpdateDeviceGoalPoints(ctx context.Context, userID, deviceID, description string, delta int) error {
	tag, err := p.pool.Exec(ctx, `UPDATE device_goals SET accrued_points = accrued_points + $1
		WHERE device_id = $2 AND description = $3
		AND EXISTS (SELECT 1 FROM devices WHERE id = $2 AND user_id = $4)`,
		delta, deviceID, description, userID)
	if err != nil {
		p.logger.Errorf("failed to update device goal points: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: goal %q not modified: %w", description, internal.ErrConflict)
	}
	return nil
}

func (p *PostgresStorage) UpdateDeviceLogs(ctx context.Context, userID, deviceID string, newCurrent internal.UsageLog) error {
	curLog, err := json.Marshal(newCurrent)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE devices SET previous_log = current_log, current_log = $1 WHERE id = $2 AND user_id = $3`,
		curLog, deviceID, userID)
	if err != nil {
		p.logger.Errorf("failed to rotate device logs: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: device %s: %w", deviceID, internal.ErrNotFound)
	}
	return nil
}

func (p *PostgresStorage) SerialNumberExists(ctx context.Context, serial string) (bool, error) {
	row := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM devices WHERE serial_number = $1)`, serial)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		p.logger.Errorf("failed to check serial number: %v", err)
		return false, err
	}
	return exists, nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*PostgresStorage)(nil)
var _ DeviceRepository = (*PostgresStorage)(nil)
