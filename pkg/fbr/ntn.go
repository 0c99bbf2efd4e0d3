package fbr

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Longitudes admitidas para NTN (7 dígitos + verificador) o CNIC (13 dígitos).
const (
	NTNMinLength = 7
	NTNMaxLength = 13
)

// NormalizeNTN limpia espacios y caracteres de ancho completo. Conserva el guion del
// dígito verificador porque el gateway acepta ambos formatos ("1234567-8", "1234567").
func NormalizeNTN(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// ValidateNTN verifica la longitud del NTN/CNIC normalizado.
func ValidateNTN(s string) error {
	n := utf8.RuneCountInString(NormalizeNTN(s))
	if n < NTNMinLength || n > NTNMaxLength {
		return fmt.Errorf("fbr: NTN/CNIC debe tener entre %d y %d caracteres, tiene %d", NTNMinLength, NTNMaxLength, n)
	}
	return nil
}
