package utils

import (
	"math"
	"strconv"
	"strings"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// SafeFloat converte um valor numérico vindo da API (normalmente string) para
// float64. Valores ausentes, vazios ou não numéricos viram 0.0, nunca erro.
func SafeFloat(v string) float64 {
	if v == "" {
		return 0.0
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0
	}

	return f
}

// SafeInt converte um valor numérico vindo da API para int. A API do Meta
// às vezes retorna contadores como "12.0", então a conversão passa por float.
func SafeInt(v string) int {
	if v == "" {
		return 0
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return int(f)
}

// SafeDivide retorna a/b, ou 0 quando o denominador não é positivo.
func SafeDivide(a, b float64) float64 {
	if b <= 0 {
		return 0
	}

	return a / b
}
