package valueobject

import "fmt"

// AccountVariant is an immutable value object representing the savings product
// an account was opened under.
type AccountVariant struct {
	value string
}

// Known account variants.
var (
	AccountVariantBasic         = AccountVariant{"BASIC"}
	AccountVariantMinor         = AccountVariant{"MINOR"}
	AccountVariantFutureSavings = AccountVariant{"FUTURE_SAVINGS"}
)

var knownAccountVariants = map[string]AccountVariant{
	"BASIC":          AccountVariantBasic,
	"MINOR":          AccountVariantMinor,
	"FUTURE_SAVINGS": AccountVariantFutureSavings,
}

// NewAccountVariant validates and creates an AccountVariant from a string.
func NewAccountVariant(s string) (AccountVariant, error) {
	v, ok := knownAccountVariants[s]
	if !ok {
		return AccountVariant{}, fmt.Errorf("unknown account variant %q: expected BASIC, MINOR, or FUTURE_SAVINGS", s)
	}
	return v, nil
}

// String returns the string representation of the account variant.
func (v AccountVariant) String() string {
	return v.value
}

// IsZero returns true if the account variant is empty.
func (v AccountVariant) IsZero() bool {
	return v.value == ""
}

// Equal returns true if two account variants are equal.
func (v AccountVariant) Equal(other AccountVariant) bool {
	return v.value == other.value
}

// SavingsTerm is the contracted duration of a FUTURE_SAVINGS account, in days.
type SavingsTerm int

// Terms offered by the cooperative.
const (
	SavingsTerm30 SavingsTerm = 30
	SavingsTerm60 SavingsTerm = 60
	SavingsTerm90 SavingsTerm = 90
)

// NewSavingsTerm validates a term length in days.
func NewSavingsTerm(days int) (SavingsTerm, error) {
	switch days {
	case 30, 60, 90:
		return SavingsTerm(days), nil
	default:
		return 0, fmt.Errorf("invalid savings term %d: expected 30, 60, or 90 days", days)
	}
}

// Days returns the term length in days.
func (t SavingsTerm) Days() int { return int(t) }
