package domain

// ReconciliationPolicy define como linhas novas interagem com as linhas já
// persistidas de uma tabela do ledger. A política é configuração escolhida
// pelo chamador, nunca descoberta em tempo de execução.
type ReconciliationPolicy string

const (
	// PolicyUpsertByKey sobrescreve a linha existente com a mesma chave de
	// entidade onde quer que ela esteja, ou anexa quando não existe. Usada
	// quando a tabela representa o "último estado conhecido" por entidade.
	PolicyUpsertByKey ReconciliationPolicy = "upsert_by_key"

	// PolicyAppendOnly anexa incondicionalmente. Reservada para trilhas
	// cronológicas (uma linha por execução); evitar duplicatas por timestamp
	// é responsabilidade do planejamento de janelas, não da reconciliação.
	PolicyAppendOnly ReconciliationPolicy = "append_only"

	// PolicyReplacePartition remove todas as linhas da partição atual e
	// anexa as novas, congelando as partições anteriores. É a política da
	// tabela diária por entidade: o dia corrente é recalculado por inteiro a
	// cada execução, dias anteriores são imutáveis.
	PolicyReplacePartition ReconciliationPolicy = "replace_partition"
)
