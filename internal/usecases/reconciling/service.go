package reconciling

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-reporter/infrastructure/tablestore"
	"github.com/vfg2006/meta-ads-reporter/internal/domain"
)

// Options parametriza uma reconciliação. KeyColumn é exigida pela política
// de upsert; PartitionColumn/PartitionKey pela política de substituição de
// partição.
type Options struct {
	Policy          domain.ReconciliationPolicy
	KeyColumn       string
	PartitionColumn string
	PartitionKey    string
}

// ReconcileError indica falha de I/O contra o armazenamento tabular. A
// execução continua para a próxima janela; a janela atual é marcada como
// falha.
type ReconcileError struct {
	TableID string
	Err     error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("erro ao reconciliar tabela %s: %v", e.TableID, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// Service mescla tabelas recém-agregadas no ledger persistido sob uma das
// políticas de reconciliação. As mesclas são calculadas integralmente em
// memória e aplicadas com escrita atômica: uma falha deixa o ledger
// exatamente como estava antes da tentativa.
type Service struct {
	store tablestore.TableStore
}

func NewService(store tablestore.TableStore) *Service {
	return &Service{
		store: store,
	}
}

func (s *Service) Reconcile(ctx context.Context, tableID string, incoming domain.Table, opts Options) error {
	grid, err := s.store.ReadAll(ctx, tableID)
	if err != nil {
		return &ReconcileError{TableID: tableID, Err: errors.Wrap(err, "erro ao ler ledger")}
	}

	existing := domain.TableFromGrid(grid)

	switch opts.Policy {
	case domain.PolicyAppendOnly:
		return s.reconcileAppend(ctx, tableID, existing, incoming, len(grid))
	case domain.PolicyUpsertByKey:
		if opts.KeyColumn == "" {
			return &ReconcileError{TableID: tableID, Err: errors.New("política de upsert exige coluna-chave")}
		}
		return s.reconcileUpsert(ctx, tableID, existing, incoming, opts.KeyColumn)
	case domain.PolicyReplacePartition:
		if opts.PartitionColumn == "" {
			return &ReconcileError{TableID: tableID, Err: errors.New("política de partição exige coluna de partição")}
		}
		return s.reconcileReplacePartition(ctx, tableID, existing, incoming, opts)
	default:
		return &ReconcileError{TableID: tableID, Err: errors.Errorf("política de reconciliação desconhecida: %q", opts.Policy)}
	}
}

// reconcileAppend anexa as linhas novas no fim da tabela. Enquanto o esquema
// não muda, a escrita é um puro append na próxima linha livre; se as colunas
// divergirem, a tabela inteira é reescrita com a união de colunas.
func (s *Service) reconcileAppend(ctx context.Context, tableID string, existing, incoming domain.Table, gridLen int) error {
	if existing.IsEmpty() {
		if err := s.store.WriteRows(ctx, tableID, incoming.ToGrid(true), 1); err != nil {
			return &ReconcileError{TableID: tableID, Err: err}
		}
		return nil
	}

	columns := unionColumns(existing.Columns, incoming.Columns)
	if sameColumns(columns, existing.Columns) {
		appended := domain.Table{Columns: columns, Rows: fillRows(incoming.Rows, columns, columnDefaults(columns, existing, incoming))}
		if err := s.store.WriteRows(ctx, tableID, appended.ToGrid(false), gridLen+1); err != nil {
			return &ReconcileError{TableID: tableID, Err: err}
		}
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"table_id": tableID,
		"columns":  len(columns),
	}).Info("Esquema da tabela mudou; reescrevendo com a união de colunas")

	merged := domain.Table{Columns: columns}
	defaults := columnDefaults(columns, existing, incoming)
	merged.Rows = append(fillRows(existing.Rows, columns, defaults), fillRows(incoming.Rows, columns, defaults)...)

	if err := s.store.ReplaceAll(ctx, tableID, merged.ToGrid(true)); err != nil {
		return &ReconcileError{TableID: tableID, Err: err}
	}
	return nil
}

// reconcileUpsert sobrescreve no lugar a linha existente com a mesma chave de
// entidade, onde quer que esteja, e anexa as chaves inéditas.
func (s *Service) reconcileUpsert(ctx context.Context, tableID string, existing, incoming domain.Table, keyColumn string) error {
	columns := unionColumns(existing.Columns, incoming.Columns)
	if !contains(columns, keyColumn) {
		return &ReconcileError{TableID: tableID, Err: errors.Errorf("coluna-chave %q não existe em nenhum dos esquemas", keyColumn)}
	}

	defaults := columnDefaults(columns, existing, incoming)
	merged := fillRows(existing.Rows, columns, defaults)

	indexByKey := make(map[string]int, len(merged))
	for i, row := range merged {
		indexByKey[fmt.Sprint(row[keyColumn])] = i
	}

	updated, added := 0, 0
	for _, row := range fillRows(incoming.Rows, columns, defaults) {
		key := fmt.Sprint(row[keyColumn])
		if i, ok := indexByKey[key]; ok {
			merged[i] = row
			updated++
		} else {
			indexByKey[key] = len(merged)
			merged = append(merged, row)
			added++
		}
	}

	logrus.WithFields(logrus.Fields{
		"table_id": tableID,
		"updated":  updated,
		"added":    added,
	}).Debug("Upsert por chave calculado")

	out := domain.Table{Columns: columns, Rows: merged}
	if err := s.store.ReplaceAll(ctx, tableID, out.ToGrid(true)); err != nil {
		return &ReconcileError{TableID: tableID, Err: err}
	}
	return nil
}

// reconcileReplacePartition remove as linhas da partição corrente e anexa as
// novas. Linhas de qualquer outra partição são preservadas intactas.
func (s *Service) reconcileReplacePartition(ctx context.Context, tableID string, existing, incoming domain.Table, opts Options) error {
	columns := unionColumns(existing.Columns, incoming.Columns)
	defaults := columnDefaults(columns, existing, incoming)

	kept := make([]domain.Row, 0, len(existing.Rows))
	for _, row := range fillRows(existing.Rows, columns, defaults) {
		if fmt.Sprint(row[opts.PartitionColumn]) == opts.PartitionKey {
			continue
		}
		kept = append(kept, row)
	}

	removed := len(existing.Rows) - len(kept)
	merged := append(kept, fillRows(incoming.Rows, columns, defaults)...)

	logrus.WithFields(logrus.Fields{
		"table_id":  tableID,
		"partition": opts.PartitionKey,
		"removed":   removed,
		"added":     len(incoming.Rows),
	}).Debug("Substituição de partição calculada")

	out := domain.Table{Columns: columns, Rows: merged}
	if err := s.store.ReplaceAll(ctx, tableID, out.ToGrid(true)); err != nil {
		return &ReconcileError{TableID: tableID, Err: err}
	}
	return nil
}

// unionColumns preserva a ordem das colunas existentes e acrescenta ao final
// as colunas novas ainda não vistas.
func unionColumns(existing, incoming []string) []string {
	out := append([]string(nil), existing...)
	seen := make(map[string]bool, len(existing))
	for _, col := range existing {
		seen[col] = true
	}
	for _, col := range incoming {
		if !seen[col] {
			seen[col] = true
			out = append(out, col)
		}
	}
	return out
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func contains(columns []string, col string) bool {
	for _, c := range columns {
		if c == col {
			return true
		}
	}
	return false
}

// columnDefaults decide o valor neutro de cada coluna: 0 para colunas cujos
// valores presentes são todos numéricos, string vazia para as demais. Nenhuma
// célula fica indefinida após a mescla.
func columnDefaults(columns []string, tables ...domain.Table) map[string]any {
	defaults := make(map[string]any, len(columns))

	for _, col := range columns {
		numeric := false
		textual := false

		for _, tbl := range tables {
			for _, row := range tbl.Rows {
				v, ok := row[col]
				if !ok || v == nil {
					continue
				}
				if isNumeric(v) {
					numeric = true
				} else {
					textual = true
				}
			}
		}

		if numeric && !textual {
			defaults[col] = 0.0
		} else {
			defaults[col] = ""
		}
	}

	return defaults
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}

// fillRows projeta cada linha na união de colunas, preenchendo células
// ausentes com o valor neutro da coluna.
func fillRows(rows []domain.Row, columns []string, defaults map[string]any) []domain.Row {
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		filled := make(domain.Row, len(columns))
		for _, col := range columns {
			if v, ok := row[col]; ok && v != nil {
				filled[col] = v
			} else {
				filled[col] = defaults[col]
			}
		}
		out = append(out, filled)
	}
	return out
}
