package valueobject

import "fmt"

// CollectionKind classifies what an outstanding collection item (cobranza)
// is charging for. The kinds form a closed tagged union; no kind carries
// behavior of its own.
type CollectionKind struct {
	value string
}

var (
	CollectionKindLoan        = CollectionKind{"LOAN"}
	CollectionKindInstallment = CollectionKind{"INSTALLMENT"}
	CollectionKindLateFee     = CollectionKind{"LATE_FEE"}
	CollectionKindInterest    = CollectionKind{"INTEREST"}
	CollectionKindOther       = CollectionKind{"OTHER"}
)

var knownCollectionKinds = map[string]CollectionKind{
	"LOAN":        CollectionKindLoan,
	"INSTALLMENT": CollectionKindInstallment,
	"LATE_FEE":    CollectionKindLateFee,
	"INTEREST":    CollectionKindInterest,
	"OTHER":       CollectionKindOther,
}

// NewCollectionKind validates and creates a CollectionKind from a string.
func NewCollectionKind(s string) (CollectionKind, error) {
	k, ok := knownCollectionKinds[s]
	if !ok {
		return CollectionKind{}, fmt.Errorf("unknown collection kind %q", s)
	}
	return k, nil
}

// String returns the string representation of the collection kind.
func (k CollectionKind) String() string { return k.value }

// IsZero returns true if the collection kind is empty.
func (k CollectionKind) IsZero() bool { return k.value == "" }

// Equal returns true if two collection kinds are equal.
func (k CollectionKind) Equal(other CollectionKind) bool {
	return k.value == other.value
}
