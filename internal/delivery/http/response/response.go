package response

import "github.com/user/tcas-fee-crawler/internal/usecase"

type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse combines dataset state with backing service checks.
type HealthResponse struct {
	Status  string             `json:"status"`
	Dataset usecase.HealthView `json:"dataset"`
	Checks  map[string]string  `json:"checks,omitempty"`
}
