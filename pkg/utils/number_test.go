package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{
			name:     "Valor decimal válido",
			input:    "123.45",
			expected: 123.45,
		},
		{
			name:     "Valor inteiro válido",
			input:    "42",
			expected: 42.0,
		},
		{
			name:     "String vazia vira zero",
			input:    "",
			expected: 0.0,
		},
		{
			name:     "Valor não numérico vira zero",
			input:    "abc",
			expected: 0.0,
		},
		{
			name:     "Valor com espaços é aceito",
			input:    " 10.5 ",
			expected: 10.5,
		},
		{
			name:     "NaN vira zero",
			input:    "NaN",
			expected: 0.0,
		},
		{
			name:     "Infinito vira zero",
			input:    "Inf",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeFloat(tt.input))
		})
	}
}

func TestSafeInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "Inteiro válido",
			input:    "17",
			expected: 17,
		},
		{
			name:     "Contador retornado como decimal",
			input:    "12.0",
			expected: 12,
		},
		{
			name:     "String vazia vira zero",
			input:    "",
			expected: 0,
		},
		{
			name:     "Valor não numérico vira zero",
			input:    "n/a",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeInt(tt.input))
		})
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		expected float64
	}{
		{
			name:     "Divisão normal",
			a:        10,
			b:        4,
			expected: 2.5,
		},
		{
			name:     "Denominador zero vira zero",
			a:        10,
			b:        0,
			expected: 0,
		},
		{
			name:     "Denominador negativo vira zero",
			a:        10,
			b:        -2,
			expected: 0,
		},
		{
			name:     "Numerador zero",
			a:        0,
			b:        5,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeDivide(tt.a, tt.b))
		})
	}
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 1.23, RoundWithTwoDecimalPlace(1.2345))
	assert.Equal(t, 1.24, RoundWithTwoDecimalPlace(1.236))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
}
