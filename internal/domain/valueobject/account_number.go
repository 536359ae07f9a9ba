package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

const accountNumberPattern = `^CAC-[0-9]{8}$`

var accountNumberRegex = regexp.MustCompile(accountNumberPattern)

// AccountNumber is an immutable value object representing the human-readable
// account identifier printed on passbooks and receipts.
// Format: CAC-NNNNNNNN where N is a digit.
//
// Generation lives behind the port.IDGenerator abstraction so tests can supply
// deterministic numbers; this type only validates and carries the value.
type AccountNumber struct {
	value string
}

// AccountNumberFromString validates and creates an AccountNumber from a string.
func AccountNumberFromString(s string) (AccountNumber, error) {
	s = strings.TrimSpace(s)
	if !accountNumberRegex.MatchString(s) {
		return AccountNumber{}, fmt.Errorf("invalid account number format %q: expected CAC-NNNNNNNN", s)
	}
	return AccountNumber{value: s}, nil
}

// String returns the string representation of the account number.
func (n AccountNumber) String() string {
	return n.value
}

// IsZero returns true if the account number is empty.
func (n AccountNumber) IsZero() bool {
	return n.value == ""
}

// Equal returns true if two account numbers are equal.
func (n AccountNumber) Equal(other AccountNumber) bool {
	return n.value == other.value
}
