package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/fiscalcode/service"
	"fiscalcode/pkg/domain"
	dErrors "fiscalcode/pkg/domain-errors"
	"fiscalcode/pkg/platform/httputil"
	"fiscalcode/pkg/platform/middleware/metadata"
	"fiscalcode/pkg/requestcontext"
)

// DefaultMaxBatchItems caps a batch request when no limit is configured.
const DefaultMaxBatchItems = 100

// Service defines the generation operations the handler needs.
type Service interface {
	Generate(ctx context.Context, p domain.Person) (fiscalcode.FiscalCode, error)
	GenerateBatch(ctx context.Context, people []domain.Person) ([]service.BatchResult, error)
	Resolve(ctx context.Context, name string) (fiscalcode.CadastralCode, error)
}

// Handler wires fiscal code endpoints to the generation service.
type Handler struct {
	service       Service
	logger        *slog.Logger
	maxBatchItems int
}

// New constructs a handler. maxBatchItems <= 0 selects DefaultMaxBatchItems.
func New(service Service, logger *slog.Logger, maxBatchItems int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBatchItems <= 0 {
		maxBatchItems = DefaultMaxBatchItems
	}
	return &Handler{
		service:       service,
		logger:        logger,
		maxBatchItems: maxBatchItems,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/fiscal-codes", h.HandleGenerate)
	r.Post("/fiscal-codes/batch", h.HandleGenerateBatch)
	r.Get("/municipalities/{name}", h.HandleGetMunicipality)
}

// HandleGenerate handles POST /fiscal-codes.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	code, err := h.service.Generate(ctx, req.Person())
	if err != nil {
		h.logFailure(ctx, "fiscal code generation failed", requestID, req.Municipality, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "fiscal code generated",
		"request_id", requestID,
		"municipality", req.Municipality,
		"client_ip", metadata.GetClientIP(ctx),
		"client_kind", metadata.GetClientKind(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromCode(code, requestcontext.Now(ctx)))
}

// HandleGenerateBatch handles POST /fiscal-codes/batch.
func (h *Handler) HandleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := req.checkSize(h.maxBatchItems); err != nil {
		httputil.WriteError(w, err)
		return
	}

	items := make([]BatchItemResponse, len(req.People))
	people := make([]domain.Person, 0, len(req.People))
	positions := make([]int, 0, len(req.People))
	for i := range req.People {
		if err := req.People[i].Validate(); err != nil {
			items[i] = batchItemError(i, err)
			continue
		}
		people = append(people, req.People[i].Person())
		positions = append(positions, i)
	}

	if len(people) > 0 {
		results, err := h.service.GenerateBatch(ctx, people)
		if err != nil {
			h.logFailure(ctx, "batch generation aborted", requestID, "", err)
			httputil.WriteError(w, err)
			return
		}
		for j, res := range results {
			i := positions[j]
			if res.Err != nil {
				items[i] = batchItemError(i, res.Err)
				continue
			}
			items[i] = batchItemSuccess(i, res.Code)
		}
	}

	resp := &BatchResponse{Results: items, GeneratedAt: requestcontext.Now(ctx)}
	for _, item := range items {
		if item.Error != "" {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}

	h.logger.InfoContext(ctx, "fiscal code batch generated",
		"request_id", requestID,
		"client_kind", metadata.GetClientKind(ctx),
		"size", len(items),
		"succeeded", resp.Succeeded,
		"failed", resp.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetMunicipality handles GET /municipalities/{name}.
func (h *Handler) HandleGetMunicipality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	name, err := domain.ParseMunicipalityName(chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	code, err := h.service.Resolve(ctx, name.String())
	if err != nil {
		h.logFailure(ctx, "municipality lookup failed", requestID, name.String(), err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &MunicipalityResponse{
		Name:          name.String(),
		CadastralCode: code.String(),
	})
}

// logFailure logs expected client-side failures at warn and the rest at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID, municipality string, err error) {
	level := slog.LevelError
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestID,
		"municipality", municipality,
		"client_ip", metadata.GetClientIP(ctx),
		"error", err,
	)
}

func asDomainError(err error) *dErrors.Error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}
