package metadomain

import "fmt"

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string      `json:"message"`
	Type         string      `json:"type"`
	Code         int         `json:"code"`
	ErrorSubcode int         `json:"error_subcode,omitempty"`
	FBTraceID    string      `json:"fbtrace_id"`
	ErrorData    interface{} `json:"error_data,omitempty"`
}

// IsAuthError verifica se o erro é de autenticação/autorização. O código 190
// representa token inválido ou expirado nas respostas da API do Meta;
// subcódigos 460, 463 e 467 são variações do mesmo problema.
func (e *ErrorResponse) IsAuthError() bool {
	return e.Error.Code == 190 ||
		e.Error.Type == "OAuthException" ||
		e.Error.ErrorSubcode == 460 || e.Error.ErrorSubcode == 463 || e.Error.ErrorSubcode == 467
}

// AuthError é fatal: nenhuma janela pode ser processada sem credencial
// válida, então a execução inteira é abortada.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("credencial rejeitada pela API do Meta: %s", e.Message)
}

// TransientError cobre falhas de rede e respostas 5xx/throttling. É retentado
// com teto fixo de tentativas; esgotado o teto, a busca devolve o que coletou
// e sinaliza resultado incompleto.
type TransientError struct {
	StatusCode int
	Message    string
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("falha transitória na API do Meta (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("falha transitória na API do Meta: %s", e.Message)
}
