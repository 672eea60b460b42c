// Package nfse contiene las reglas puras de la emisión de NFS-e:
// clasificación del documento del tomador, derivación del estado de
// preparación, la máquina de estados de la emisión y la referencia externa.
package nfse

import "strings"

// CleanDocument elimina todo lo que no sea dígito (puntos, guiones, barras).
func CleanDocument(doc string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, doc)
}

// IsCNPJ clasifica un documento ya limpio: más de 11 dígitos es CNPJ
// (empresa); 11 o menos es CPF (persona física). Determina cuál de los dos
// campos mutuamente excluyentes del payload se llena.
func IsCNPJ(cleanDoc string) bool {
	return len(cleanDoc) > 11
}
