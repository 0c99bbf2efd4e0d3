package fbr

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRate convierte la tasa textual del gateway ("18%", "17.5 %", "0") en porcentaje decimal.
func ParseRate(rate string) (decimal.Decimal, error) {
	s := strings.TrimSpace(rate)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("fbr: tasa vacía")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fbr: tasa inválida %q", rate)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("fbr: tasa fuera de rango %q", rate)
	}
	return d, nil
}

// FormatRate devuelve la tasa en el formato que espera el gateway ("18%").
func FormatRate(pct decimal.Decimal) string {
	return pct.String() + "%"
}
