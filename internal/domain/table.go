package domain

import "fmt"

// Row é uma linha de tabela indexada pelo nome da coluna.
type Row map[string]any

// Table é a representação canônica de uma tabela do ledger: colunas
// ordenadas e linhas ordenadas. Valores numéricos são mantidos como tipos
// numéricos nativos; formatação de moeda/locale é responsabilidade exclusiva
// da camada de apresentação do destino.
type Table struct {
	Columns []string
	Rows    []Row
}

// IsEmpty retorna verdadeiro quando a tabela não tem colunas nem linhas.
func (t Table) IsEmpty() bool {
	return len(t.Columns) == 0 && len(t.Rows) == 0
}

// Clone faz uma cópia profunda da tabela.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows = append(out.Rows, copied)
	}
	return out
}

// ToGrid converte a tabela para a grade crua usada pelo TableStore. Quando
// includeHeader é verdadeiro, a primeira linha da grade é o cabeçalho.
func (t Table) ToGrid(includeHeader bool) [][]any {
	grid := make([][]any, 0, len(t.Rows)+1)

	if includeHeader {
		header := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			header[i] = col
		}
		grid = append(grid, header)
	}

	for _, row := range t.Rows {
		cells := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = row[col]
		}
		grid = append(grid, cells)
	}

	return grid
}

// TableFromGrid interpreta uma grade crua como tabela, tratando a primeira
// linha como cabeçalho. Células além do cabeçalho são descartadas e células
// ausentes ficam nulas.
func TableFromGrid(grid [][]any) Table {
	if len(grid) == 0 {
		return Table{}
	}

	columns := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		columns[i] = fmt.Sprint(cell)
	}

	rows := make([]Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}
