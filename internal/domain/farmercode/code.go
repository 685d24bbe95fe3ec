// Package farmercode formatea y analiza los códigos legibles de productor (F0001, F0002…).
package farmercode

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix antecede al número secuencial.
const Prefix = "F"

const width = 4

// Format devuelve el código para el número n (n ≥ 1). Con más de 9999 productores el
// código crece de ancho en lugar de truncarse: F10000.
func Format(n int64) string {
	return fmt.Sprintf("%s%0*d", Prefix, width, n)
}

// Parse extrae el número de un código. ok es false si el código no sigue el formato.
func Parse(code string) (n int64, ok bool) {
	if !strings.HasPrefix(code, Prefix) {
		return 0, false
	}
	digits := code[len(Prefix):]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// MaxSuffix devuelve el mayor número entre los códigos válidos (0 si no hay ninguno).
// Los códigos mal formados se ignoran.
func MaxSuffix(codes []string) int64 {
	var highest int64
	for _, c := range codes {
		if n, ok := Parse(c); ok && n > highest {
			highest = n
		}
	}
	return highest
}
