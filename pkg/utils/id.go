package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Comprimento do identificador de execução. Oito caracteres alfanuméricos
// bastam para correlacionar os logs de execuções distintas sem colisão
// prática.
const runIDLength = 8

// GenerateID gera o identificador curto (run_id) que amarra os logs de uma
// mesma execução de sincronização de relatórios.
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, runIDLength)
}
