package pipeline

import (
	"strings"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// Contains is the case-insensitive substring match shared by list search and
// the command palette. needle must already be lower-cased.
func Contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func searchHaystack(b *domain.Booking) string {
	parts := []string{
		b.ID,
		b.Customer.Name,
		b.Customer.Email,
		b.Resource,
		b.Purpose,
		b.AssignedTo,
	}
	parts = append(parts, b.Tags...)
	return strings.Join(parts, " ")
}

var vowels = strings.NewReplacer("a", "", "e", "", "i", "", "o", "", "u", "")

func stripVowels(s string) string {
	return vowels.Replace(strings.ToLower(s))
}

// matchSearch matches the term against the joined text fields, falling back to
// a vowel-less comparison of the customer name to tolerate simple typos.
func matchSearch(term string) predicate {
	fuzzy := stripVowels(term)
	return func(b *domain.Booking) bool {
		if Contains(searchHaystack(b), term) {
			return true
		}
		return fuzzy != "" && strings.Contains(stripVowels(b.Customer.Name), fuzzy)
	}
}
