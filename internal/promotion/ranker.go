package promotion

import (
	"cmp"
	"slices"

	"github.com/utafrali/promotion-service/internal/domain"
)

// ByPriority orders promotions by ascending priority. Lower priority values
// take precedence.
func ByPriority(a, b domain.Promotion) int {
	return cmp.Compare(a.Priority, b.Priority)
}

// Rank returns a copy of promotions sorted most important first. Promotions of
// equal priority keep their input order.
func Rank(promotions []domain.Promotion) []domain.Promotion {
	ranked := make([]domain.Promotion, len(promotions))
	copy(ranked, promotions)
	slices.SortStableFunc(ranked, ByPriority)
	return ranked
}
