package remote

import (
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/model"
)

// Wire records for the central API. Amounts travel as fixed-point strings so
// the remote side never sees binary floating point.

type memberRecord struct {
	ID             uuid.UUID `json:"id"`
	DocumentNumber string    `json:"document_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	BirthDate      string    `json:"birth_date"`
	Address        string    `json:"address"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}

func newMemberRecord(m model.Member) memberRecord {
	rec := memberRecord{
		ID:             m.ID(),
		DocumentNumber: m.DocumentNumber(),
		FirstName:      m.FirstName(),
		LastName:       m.LastName(),
		BirthDate:      m.BirthDate().Format("2006-01-02"),
		Address:        m.Address(),
		Phone:          m.Phone(),
		Email:          m.Email(),
		CreatedAt:      m.CreatedAt(),
	}
	if c := m.Coordinates(); c != nil {
		rec.Latitude = &c.Latitude
		rec.Longitude = &c.Longitude
	}
	return rec
}

type accountRecord struct {
	ID               uuid.UUID  `json:"id"`
	AccountNumber    string     `json:"account_number"`
	MemberID         uuid.UUID  `json:"member_id"`
	Variant          string     `json:"variant"`
	Balance          string     `json:"balance"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	OpenedAt         time.Time  `json:"opened_at"`
	MinorMemberID    *uuid.UUID `json:"minor_member_id,omitempty"`
	GuardianMemberID *uuid.UUID `json:"guardian_member_id,omitempty"`
	TermDays         int        `json:"term_days,omitempty"`
	MaturityDate     *time.Time `json:"maturity_date,omitempty"`
	TargetAmount     *string    `json:"target_amount,omitempty"`
	Version          int        `json:"version"`
}

func newAccountRecord(a model.Account) accountRecord {
	rec := accountRecord{
		ID:            a.ID(),
		AccountNumber: a.Number().String(),
		MemberID:      a.MemberID(),
		Variant:       a.Variant().String(),
		Balance:       a.Balance().Amount().StringFixed(2),
		Currency:      a.Balance().Currency().Code(),
		Status:        string(a.Status()),
		OpenedAt:      a.OpenedAt(),
		TermDays:      a.Term().Days(),
		Version:       a.Version(),
	}
	if id := a.MinorMemberID(); id != uuid.Nil {
		rec.MinorMemberID = &id
	}
	if id := a.GuardianMemberID(); id != uuid.Nil {
		rec.GuardianMemberID = &id
	}
	if m := a.MaturityDate(); !m.IsZero() {
		rec.MaturityDate = &m
	}
	if t := a.TargetAmount(); t != nil {
		s := t.Amount().StringFixed(2)
		rec.TargetAmount = &s
	}
	return rec
}

type transactionRecord struct {
	ID               uuid.UUID  `json:"id"`
	AccountID        *uuid.UUID `json:"account_id,omitempty"`
	Kind             string     `json:"kind"`
	Amount           string     `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	TellerID         uuid.UUID  `json:"teller_id"`
	PostedAt         time.Time  `json:"posted_at"`
	ReceiptNumber    string     `json:"receipt_number"`
	Note             string     `json:"note,omitempty"`
	CollectionItemID *uuid.UUID `json:"collection_item_id,omitempty"`
}

func newTransactionRecord(t model.Transaction) transactionRecord {
	return transactionRecord{
		ID:               t.ID(),
		AccountID:        t.AccountID(),
		Kind:             string(t.Kind()),
		Amount:           t.Amount().Amount().StringFixed(2),
		Currency:         t.Amount().Currency().Code(),
		Status:           string(t.Status()),
		TellerID:         t.TellerID(),
		PostedAt:         t.PostedAt(),
		ReceiptNumber:    t.ReceiptNumber(),
		Note:             t.Note(),
		CollectionItemID: t.CollectionItemID(),
	}
}

type collectionRecord struct {
	ID                uuid.UUID  `json:"id"`
	MemberID          uuid.UUID  `json:"member_id"`
	AccountID         *uuid.UUID `json:"account_id,omitempty"`
	LoanID            *uuid.UUID `json:"loan_id,omitempty"`
	InstallmentID     *uuid.UUID `json:"installment_id,omitempty"`
	Outstanding       string     `json:"outstanding"`
	Original          string     `json:"original"`
	AccruedLateFee    string     `json:"accrued_late_fee"`
	AccruedInterest   string     `json:"accrued_interest"`
	Currency          string     `json:"currency"`
	DueDate           time.Time  `json:"due_date"`
	Status            string     `json:"status"`
	Kind              string     `json:"kind"`
	Concept           string     `json:"concept,omitempty"`
	InstallmentNumber *int       `json:"installment_number,omitempty"`
	Version           int        `json:"version"`
}

func newCollectionRecord(c model.CollectionItem) collectionRecord {
	return collectionRecord{
		ID:                c.ID(),
		MemberID:          c.MemberID(),
		AccountID:         c.AccountID(),
		LoanID:            c.LoanID(),
		InstallmentID:     c.InstallmentID(),
		Outstanding:       c.Outstanding().Amount().StringFixed(2),
		Original:          c.Original().Amount().StringFixed(2),
		AccruedLateFee:    c.AccruedLateFee().Amount().StringFixed(2),
		AccruedInterest:   c.AccruedInterest().Amount().StringFixed(2),
		Currency:          c.Outstanding().Currency().Code(),
		DueDate:           c.DueDate(),
		Status:            string(c.Status()),
		Kind:              c.Kind().String(),
		Concept:           c.Concept(),
		InstallmentNumber: c.InstallmentNumber(),
		Version:           c.Version(),
	}
}
