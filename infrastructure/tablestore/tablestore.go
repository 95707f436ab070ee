package tablestore

import "context"

// TableStore é a capacidade de armazenamento tabular consumida pela
// reconciliação. As grades são cruas: a primeira linha, quando presente, é o
// cabeçalho; os índices de linha começam em 1.
//
// ReplaceAll equivale a Clear seguido de WriteRows, mas atômico: uma
// reconciliação que falha no meio não pode deixar a tabela pela metade.
type TableStore interface {
	ReadAll(ctx context.Context, tableID string) ([][]any, error)
	WriteRows(ctx context.Context, tableID string, rows [][]any, startRow int) error
	Clear(ctx context.Context, tableID string) error
	ReplaceAll(ctx context.Context, tableID string, rows [][]any) error
}
