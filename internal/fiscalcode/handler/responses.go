package handler

import (
	"time"

	"fiscalcode/internal/fiscalcode"
	dErrors "fiscalcode/pkg/domain-errors"
)

// GenerateResponse is the HTTP response for POST /fiscal-codes.
type GenerateResponse struct {
	FiscalCode  string               `json:"fiscal_code"`
	Fragments   fiscalcode.Fragments `json:"fragments"`
	GeneratedAt time.Time            `json:"generated_at"`
}

func fromCode(code fiscalcode.FiscalCode, now time.Time) *GenerateResponse {
	return &GenerateResponse{
		FiscalCode:  code.String(),
		Fragments:   code.Fragments(),
		GeneratedAt: now,
	}
}

// BatchItemResponse is the outcome for one entry of a batch, at the same index
// as the request.
type BatchItemResponse struct {
	Index            int                   `json:"index"`
	FiscalCode       string                `json:"fiscal_code,omitempty"`
	Fragments        *fiscalcode.Fragments `json:"fragments,omitempty"`
	Error            string                `json:"error,omitempty"`
	ErrorDescription string                `json:"error_description,omitempty"`
}

// BatchResponse is the HTTP response for POST /fiscal-codes/batch.
type BatchResponse struct {
	Results     []BatchItemResponse `json:"results"`
	Succeeded   int                 `json:"succeeded"`
	Failed      int                 `json:"failed"`
	GeneratedAt time.Time           `json:"generated_at"`
}

func batchItemSuccess(index int, code fiscalcode.FiscalCode) BatchItemResponse {
	fragments := code.Fragments()
	return BatchItemResponse{
		Index:      index,
		FiscalCode: code.String(),
		Fragments:  &fragments,
	}
}

// batchItemError mirrors httputil.WriteError: internal errors carry no
// description.
func batchItemError(index int, err error) BatchItemResponse {
	code := dErrors.CodeOf(err)
	item := BatchItemResponse{Index: index, Error: string(code)}
	if code != dErrors.CodeInternal {
		if de := asDomainError(err); de != nil {
			item.ErrorDescription = de.Message
		}
	}
	return item
}

// MunicipalityResponse is the HTTP response for GET /municipalities/{name}.
type MunicipalityResponse struct {
	Name          string `json:"name"`
	CadastralCode string `json:"cadastral_code"`
}
