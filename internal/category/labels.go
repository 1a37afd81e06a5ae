package category

import "sasocial/pkg/models"

// allLabels is the full label superset granted to synthesized profiles: with
// no application on file there is nothing to restrict against.
var allLabels = []string{
	"Alimentos", "Alimento",
	"Higiene Pessoal", "Higiene", "Higiene e Cuidados Pessoais",
	"Limpeza", "Produtos de Limpeza",
	"Outros", "Outro",
}

// AcceptedLabels expands a profile's category flags into the label variants
// used across inventory data. A synthesized profile (no backing application)
// with every flag set gets the fixed superset; a profile backed by an
// application only ever gets the labels for its declared flags, even when all
// four are set.
func AcceptedLabels(p models.BeneficiaryProfile) []string {
	if !p.HasApplication && p.WantsFood && p.WantsHygiene && p.WantsCleaning && p.WantsOther {
		out := make([]string, len(allLabels))
		copy(out, allLabels)
		return out
	}

	var labels []string
	if p.WantsFood {
		labels = append(labels, "Alimentos", "Alimento")
	}
	if p.WantsHygiene {
		labels = append(labels, "Higiene Pessoal", "Higiene", "Higiene e Cuidados Pessoais")
	}
	if p.WantsCleaning {
		labels = append(labels, "Limpeza", "Produtos de Limpeza")
	}
	if p.WantsOther {
		labels = append(labels, "Outros", "Outro")
	}
	return labels
}
