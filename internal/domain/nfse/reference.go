package nfse

import "strings"

// EmissionRef construye la referencia externa a partir del id de la emisión:
// "dn-" + los primeros 20 caracteres del UUID sin guiones. Es determinística
// y libre de colisiones porque el id de la emisión ya es único; el API fiscal
// rechaza referencias exactamente duplicadas.
func EmissionRef(emissionID string) string {
	compact := strings.ReplaceAll(emissionID, "-", "")
	if len(compact) > 20 {
		compact = compact[:20]
	}
	return "dn-" + compact
}
