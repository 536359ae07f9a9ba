package idgen_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coopandina/teller/internal/infrastructure/idgen"
)

func TestAccountNumber(t *testing.T) {
	g := idgen.New()
	pattern := regexp.MustCompile(`^CAC-\d{8}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		number := g.AccountNumber().String()
		assert.Regexp(t, pattern, number)
		_, dup := seen[number]
		assert.False(t, dup, "duplicate account number %s", number)
		seen[number] = struct{}{}
	}
}

func TestReceiptNumber(t *testing.T) {
	g := idgen.New()
	pattern := regexp.MustCompile(`^REC-\d{8}-\d{6}$`)

	first := g.ReceiptNumber()
	second := g.ReceiptNumber()

	assert.Regexp(t, pattern, first)
	assert.Regexp(t, pattern, second)
	assert.NotEqual(t, first, second)
}
