package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ride-hail-service/internal/domain"
)

// CaptainRepository defines persistence access for drivers.
type CaptainRepository interface {
	Create(ctx context.Context, captain *domain.Captain) error
	UpdateStatus(ctx context.Context, id string, status domain.CaptainStatus) error
	GetByID(ctx context.Context, id string) (*domain.Captain, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*domain.Captain, error)
}

type captainRepository struct {
	pool *pgxpool.Pool
}

// NewCaptainRepository returns a Postgres-backed implementation.
func NewCaptainRepository(pool *pgxpool.Pool) CaptainRepository {
	return &captainRepository{pool: pool}
}

func (r *captainRepository) Create(ctx context.Context, captain *domain.Captain) error {
	const query = `
        INSERT INTO captains
            (firstname, lastname, email, password_hash, status,
             vehicle_color, vehicle_plate, vehicle_capacity, vehicle_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	if captain.Status == "" {
		captain.Status = domain.CaptainStatusUnavailable
	}

	err := r.pool.QueryRow(ctx, query,
		captain.Firstname,
		captain.Lastname,
		captain.Email,
		captain.PasswordHash,
		captain.Status,
		captain.Vehicle.Color,
		captain.Vehicle.Plate,
		captain.Vehicle.Capacity,
		captain.Vehicle.Type,
	).Scan(&captain.ID, &captain.CreatedAt, &captain.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *captainRepository) UpdateStatus(ctx context.Context, id string, status domain.CaptainStatus) error {
	const query = `
        UPDATE captains SET status=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *captainRepository) GetByID(ctx context.Context, id string) (*domain.Captain, error) {
	const query = `
        SELECT id, firstname, lastname, email, status,
               vehicle_color, vehicle_plate, vehicle_capacity, vehicle_type,
               created_at, updated_at
        FROM captains WHERE id=$1`

	var captain domain.Captain
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&captain.ID,
		&captain.Firstname,
		&captain.Lastname,
		&captain.Email,
		&captain.Status,
		&captain.Vehicle.Color,
		&captain.Vehicle.Plate,
		&captain.Vehicle.Capacity,
		&captain.Vehicle.Type,
		&captain.CreatedAt,
		&captain.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &captain, nil
}

func (r *captainRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domain.Captain, error) {
	const query = `
        SELECT id, firstname, lastname, email, password_hash, status,
               vehicle_color, vehicle_plate, vehicle_capacity, vehicle_type,
               created_at, updated_at
        FROM captains WHERE email=$1`

	var captain domain.Captain
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&captain.ID,
		&captain.Firstname,
		&captain.Lastname,
		&captain.Email,
		&captain.PasswordHash,
		&captain.Status,
		&captain.Vehicle.Color,
		&captain.Vehicle.Plate,
		&captain.Vehicle.Capacity,
		&captain.Vehicle.Type,
		&captain.CreatedAt,
		&captain.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &captain, nil
}
