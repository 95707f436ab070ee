package tablestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/meta-ads-reporter/infrastructure/database/postgres"
)

const ledgerRowsTable = "ledger_rows"

// PostgresStore persiste cada tabela do ledger como linhas ordenadas de
// células JSON, chaveadas por (table_id, row_index).
type PostgresStore struct {
	conn *postgres.Connection
}

func NewPostgresStore(conn *postgres.Connection) *PostgresStore {
	return &PostgresStore{
		conn: conn,
	}
}

// EnsureSchema cria a tabela de armazenamento caso ainda não exista.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_rows (
			table_id   TEXT NOT NULL,
			row_index  INT NOT NULL,
			cells      JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (table_id, row_index)
		)
	`)
	if err != nil {
		return fmt.Errorf("erro ao criar schema do ledger: %w", err)
	}
	return nil
}

func (s *PostgresStore) ReadAll(ctx context.Context, tableID string) ([][]any, error) {
	query, args, err := squirrel.
		Select("lr.cells").
		From(ledgerRowsTable + " lr").
		Where(squirrel.Eq{"lr.table_id": tableID}).
		OrderBy("lr.row_index ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	grid := make([][]any, 0)
	for rows.Next() {
		var cellsJSON []byte
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, fmt.Errorf("erro ao escanear linha do ledger: %w", err)
		}

		var cells []any
		if err := json.Unmarshal(cellsJSON, &cells); err != nil {
			return nil, fmt.Errorf("erro ao deserializar células: %w", err)
		}
		grid = append(grid, cells)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return grid, nil
}

func (s *PostgresStore) WriteRows(ctx context.Context, tableID string, rows [][]any, startRow int) error {
	if startRow < 1 {
		startRow = 1
	}

	return s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return s.writeRowsTx(tx, tableID, rows, startRow)
	})
}

func (s *PostgresStore) Clear(ctx context.Context, tableID string) error {
	query, args, err := squirrel.
		Delete(ledgerRowsTable).
		Where(squirrel.Eq{"table_id": tableID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao limpar tabela %s: %w", tableID, err)
	}

	return nil
}

// ReplaceAll troca o conteúdo inteiro da tabela em uma única transação, para
// que uma falha no meio da escrita não deixe o ledger pela metade.
func (s *PostgresStore) ReplaceAll(ctx context.Context, tableID string, rows [][]any) error {
	return s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		query, args, err := squirrel.
			Delete(ledgerRowsTable).
			Where(squirrel.Eq{"table_id": tableID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("erro ao limpar tabela %s: %w", tableID, err)
		}

		return s.writeRowsTx(tx, tableID, rows, 1)
	})
}

func (s *PostgresStore) writeRowsTx(tx *sql.Tx, tableID string, rows [][]any, startRow int) error {
	for i, row := range rows {
		cellsJSON, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("erro ao serializar células para JSON: %w", err)
		}

		query, args, err := squirrel.StatementBuilder.
			Insert(ledgerRowsTable).
			Columns("table_id", "row_index", "cells").
			Values(tableID, startRow+i, cellsJSON).
			Suffix(`
				ON CONFLICT (table_id, row_index) DO UPDATE SET
					cells = EXCLUDED.cells,
					updated_at = NOW()
			`).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.Exec(query, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
			}
			return fmt.Errorf("erro ao executar a query: %w", err)
		}
	}

	return nil
}
