package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Coordinates is an optional GPS fix captured when a member's address is
// registered in the field.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Member is a cooperative member (socio). Created once; immutable except the
// contact fields, which tellers may correct.
type Member struct {
	id             uuid.UUID
	documentNumber string
	firstName      string
	lastName       string
	birthDate      time.Time
	address        string
	coordinates    *Coordinates
	phone          string
	email          string
	createdAt      time.Time
	synced         bool
}

// NewMember creates a Member after validating identity fields.
func NewMember(
	id uuid.UUID,
	documentNumber, firstName, lastName string,
	birthDate time.Time,
	address, phone, email string,
	now time.Time,
) (Member, error) {
	if id == uuid.Nil {
		return Member{}, fmt.Errorf("member ID is required")
	}
	if strings.TrimSpace(documentNumber) == "" {
		return Member{}, fmt.Errorf("document number is required")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return Member{}, fmt.Errorf("member name is required")
	}
	if birthDate.IsZero() || !birthDate.Before(now) {
		return Member{}, fmt.Errorf("birth date must be in the past")
	}

	return Member{
		id:             id,
		documentNumber: documentNumber,
		firstName:      firstName,
		lastName:       lastName,
		birthDate:      birthDate,
		address:        address,
		phone:          phone,
		email:          email,
		createdAt:      now,
	}, nil
}

// ReconstructMember rebuilds a Member from persistence without validation.
func ReconstructMember(
	id uuid.UUID,
	documentNumber, firstName, lastName string,
	birthDate time.Time,
	address string,
	coordinates *Coordinates,
	phone, email string,
	createdAt time.Time,
	synced bool,
) Member {
	return Member{
		id:             id,
		documentNumber: documentNumber,
		firstName:      firstName,
		lastName:       lastName,
		birthDate:      birthDate,
		address:        address,
		coordinates:    coordinates,
		phone:          phone,
		email:          email,
		createdAt:      createdAt,
		synced:         synced,
	}
}

// WithCoordinates returns a copy carrying a captured GPS fix. The copy is
// eligible for upload again so the fix reaches the central store.
func (m Member) WithCoordinates(c Coordinates) Member {
	next := m
	next.coordinates = &c
	next.synced = false
	return next
}

// UpdateContact returns a copy with corrected contact fields. Identity fields
// never change after creation. The copy is eligible for upload again.
func (m Member) UpdateContact(address, phone, email string) Member {
	next := m
	next.address = address
	next.phone = phone
	next.email = email
	next.synced = false
	return next
}

// MarkSynced returns a copy flagged as acknowledged by the central store.
func (m Member) MarkSynced() Member {
	next := m
	next.synced = true
	return next
}

// --- Accessors ---

func (m Member) ID() uuid.UUID          { return m.id }
func (m Member) DocumentNumber() string { return m.documentNumber }
func (m Member) FirstName() string      { return m.firstName }
func (m Member) LastName() string       { return m.lastName }
func (m Member) BirthDate() time.Time   { return m.birthDate }
func (m Member) Address() string        { return m.address }
func (m Member) Phone() string          { return m.phone }
func (m Member) Email() string          { return m.email }
func (m Member) CreatedAt() time.Time   { return m.createdAt }
func (m Member) Synced() bool           { return m.synced }

// FullName returns the member's display name for receipts.
func (m Member) FullName() string {
	return m.firstName + " " + m.lastName
}

// Coordinates returns the captured GPS fix, or nil when none was recorded.
func (m Member) Coordinates() *Coordinates {
	if m.coordinates == nil {
		return nil
	}
	c := *m.coordinates
	return &c
}
