package category

import (
	"strings"

	"sasocial/pkg/models"
)

// Inventory categories are free text and inconsistently spelled, so matching
// is deliberately loose: exact (case-insensitive), mutual containment, plus a
// fixed synonym table for the spellings seen in production data. This is the
// single implementation; the stock screen and the request screen both go
// through it.

var synonymPairs = [][2]string{
	{"Alimento", "Alimentos"},
	{"Produtos de Limpeza", "Limpeza"},
	{"Outro", "Outros"},
}

// Accepts reports whether an item category matches any of the beneficiary's
// accepted category labels. Symmetric for the synonym table.
func Accepts(itemCategory string, accepted []string) bool {
	item := strings.TrimSpace(itemCategory)
	if item == "" {
		return false
	}

	for _, label := range accepted {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if strings.EqualFold(item, label) {
			return true
		}
		// "Higiene" vs "Higiene Pessoal" and the like.
		if containsFold(item, label) || containsFold(label, item) {
			return true
		}
		for _, pair := range synonymPairs {
			if (strings.EqualFold(item, pair[0]) && strings.EqualFold(label, pair[1])) ||
				(strings.EqualFold(item, pair[1]) && strings.EqualFold(label, pair[0])) {
				return true
			}
		}
		if (strings.EqualFold(item, "Higiene") && containsFold(label, "Higiene")) ||
			(containsFold(item, "Higiene") && strings.EqualFold(label, "Higiene")) {
			return true
		}
	}

	return false
}

// Available applies the beneficiary visibility rule: category match plus
// stock on hand.
func Available(item models.InventoryItem, accepted []string) bool {
	return item.Quantity > 0 && Accepts(item.Category, accepted)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
