package submission

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Append(ctx context.Context, s *Submission) error
	FindAssignedByDoctor(ctx context.Context, doctorAddress string) (*Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Append(ctx context.Context, s *Submission) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO submissions
			(id, requester_address, appointment, is_private, specialists, procedures,
			 patient_name, medical, doctor_name, doctor_address, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.RequesterAddress, s.Appointment, s.IsPrivate, s.Specialists, s.Procedures,
		s.PatientName, s.Medical, s.DoctorName, s.DoctorAddress, s.Status, s.CreatedAt)
	return err
}

// FindAssignedByDoctor returns the oldest ASSIGNED row for the doctor's
// address, or nil when there is none.
func (r *postgresRepo) FindAssignedByDoctor(ctx context.Context, doctorAddress string) (*Submission, error) {
	query := `SELECT id, requester_address, appointment, is_private, specialists, procedures,
			patient_name, medical, doctor_name, doctor_address, status, created_at
		FROM submissions
		WHERE doctor_address = $1 AND status = $2
		ORDER BY created_at LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, doctorAddress, StatusAssigned)

	var s Submission
	err := row.Scan(
		&s.ID,
		&s.RequesterAddress,
		&s.Appointment,
		&s.IsPrivate,
		&s.Specialists,
		&s.Procedures,
		&s.PatientName,
		&s.Medical,
		&s.DoctorName,
		&s.DoctorAddress,
		&s.Status,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.db.ExecContext(ctx, `UPDATE submissions SET status = $1 WHERE id = $2`, status, id)
	return err
}
