package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coopandina/teller/internal/domain/model"
)

// MemberRepository implements port.MemberRepository using PostgreSQL.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a PostgreSQL-backed MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `
	id, document_number, first_name, last_name, birth_date,
	address, latitude, longitude, phone, email, created_at, synced
`

// Save upserts a member. Identity fields never change after the first
// insert; only the contact fields, coordinates, and synced flag do.
func (r *MemberRepository) Save(ctx context.Context, member model.Member) error {
	const sql = `
		INSERT INTO members (
			id, document_number, first_name, last_name, birth_date,
			address, latitude, longitude, phone, email, created_at, synced
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			synced = EXCLUDED.synced
	`

	var lat, lng *float64
	if c := member.Coordinates(); c != nil {
		lat, lng = &c.Latitude, &c.Longitude
	}

	_, err := r.pool.Exec(ctx, sql,
		member.ID(), member.DocumentNumber(), member.FirstName(), member.LastName(),
		member.BirthDate(), member.Address(), lat, lng,
		member.Phone(), member.Email(), member.CreatedAt(), member.Synced(),
	)
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

// FindByID retrieves a member by id.
func (r *MemberRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Member, error) {
	return r.findOne(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
}

// FindByDocument retrieves a member by national document number.
func (r *MemberRepository) FindByDocument(ctx context.Context, documentNumber string) (model.Member, error) {
	return r.findOne(ctx, `SELECT `+memberColumns+` FROM members WHERE document_number = $1`, documentNumber)
}

// ListUnsynced returns members the central store has not acknowledged.
func (r *MemberRepository) ListUnsynced(ctx context.Context) ([]model.Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members WHERE NOT synced ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list unsynced members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// MarkSynced flags the given members as acknowledged.
func (r *MemberRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE members SET synced = TRUE WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark members synced: %w", err)
	}
	return nil
}

func (r *MemberRepository) findOne(ctx context.Context, sql string, arg any) (model.Member, error) {
	member, err := scanMember(r.pool.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Member{}, model.ErrMemberNotFound
		}
		return model.Member{}, err
	}
	return member, nil
}

func scanMember(row pgx.Row) (model.Member, error) {
	var (
		id             uuid.UUID
		documentNumber string
		firstName      string
		lastName       string
		birthDate      time.Time
		address        string
		lat, lng       *float64
		phone, email   string
		createdAt      time.Time
		synced         bool
	)
	if err := row.Scan(
		&id, &documentNumber, &firstName, &lastName, &birthDate,
		&address, &lat, &lng, &phone, &email, &createdAt, &synced,
	); err != nil {
		return model.Member{}, err
	}

	var coords *model.Coordinates
	if lat != nil && lng != nil {
		coords = &model.Coordinates{Latitude: *lat, Longitude: *lng}
	}

	return model.ReconstructMember(
		id, documentNumber, firstName, lastName, birthDate,
		address, coords, phone, email, createdAt, synced,
	), nil
}
