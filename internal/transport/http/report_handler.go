package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "camprice/internal/errors"
	"camprice/internal/exporter"
	custommw "camprice/internal/middleware"
	"camprice/pkg/contracts/domain"
)

// ReportService is the handler's view of the report layer.
type ReportService interface {
	PriceTrends(ctx context.Context, filters domain.ReportFilters) ([]domain.PriceTrend, error)
	MarketStats(ctx context.Context, filters domain.ReportFilters) ([]domain.MarketStats, error)
	ProductStats(ctx context.Context, filters domain.ReportFilters) ([]domain.ProductStats, error)
	CategoryStats(ctx context.Context, filters domain.ReportFilters) ([]domain.CategoryStats, error)
	Generate(ctx context.Context, filters domain.ReportFilters) (domain.ReportData, error)
}

// ReportHandler serves the report views and the export endpoint with
// RFC 7807 error responses.
type ReportHandler struct {
	service      ReportService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	metrics      *custommw.HTTPMetrics
	exportTitle  string
}

// NewReportHandler creates a report handler. Metrics may be nil.
func NewReportHandler(service ReportService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, metrics *custommw.HTTPMetrics, exportTitle string) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
		metrics:      metrics,
		exportTitle:  exportTitle,
	}
}

// Routes returns the report routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/trends", h.GetPriceTrends)
		r.Get("/markets", h.GetMarketStats)
		r.Get("/products", h.GetProductStats)
		r.Get("/categories", h.GetCategoryStats)
	})

	// Export writes raw file bytes, so it stays outside the JSON group.
	r.Get("/export", h.ExportReport)

	return r
}

// parseFilters builds and validates the shared report filters from the
// query string. Omitted constraint dimensions default to "all"; the date
// window is mandatory.
func (h *ReportHandler) parseFilters(r *http.Request) (domain.ReportFilters, error) {
	q := r.URL.Query()

	filters := domain.ReportFilters{
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
		Market:    q.Get("market"),
		Product:   q.Get("product"),
		Category:  q.Get("category"),
	}
	if filters.Market == "" {
		filters.Market = domain.FilterAll
	}
	if filters.Product == "" {
		filters.Product = domain.FilterAll
	}
	if filters.Category == "" {
		filters.Category = domain.FilterAll
	}

	if err := h.validate.Struct(filters); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field := verrs[0].Field()
			return domain.ReportFilters{}, apierrors.ErrValidation(field,
				fmt.Sprintf("'%s' must be a date in YYYY-MM-DD format", field))
		}
		return domain.ReportFilters{}, apierrors.InvalidRequestWithError(err)
	}

	return filters, nil
}

// GetPriceTrends handles GET /api/reports/trends
func (h *ReportHandler) GetPriceTrends(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, "price trends", func(ctx context.Context, filters domain.ReportFilters) (any, int, error) {
		trends, err := h.service.PriceTrends(ctx, filters)
		return trends, len(trends), err
	})
}

// GetMarketStats handles GET /api/reports/markets
func (h *ReportHandler) GetMarketStats(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, "market statistics", func(ctx context.Context, filters domain.ReportFilters) (any, int, error) {
		stats, err := h.service.MarketStats(ctx, filters)
		return stats, len(stats), err
	})
}

// GetProductStats handles GET /api/reports/products
func (h *ReportHandler) GetProductStats(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, "product statistics", func(ctx context.Context, filters domain.ReportFilters) (any, int, error) {
		stats, err := h.service.ProductStats(ctx, filters)
		return stats, len(stats), err
	})
}

// GetCategoryStats handles GET /api/reports/categories
func (h *ReportHandler) GetCategoryStats(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, "category statistics", func(ctx context.Context, filters domain.ReportFilters) (any, int, error) {
		stats, err := h.service.CategoryStats(ctx, filters)
		return stats, len(stats), err
	})
}

// serveView runs the shared view pipeline: parse filters, compute, respond.
func (h *ReportHandler) serveView(w http.ResponseWriter, r *http.Request, name string, view func(context.Context, domain.ReportFilters) (any, int, error)) {
	reqID := custommw.GetReqID(r.Context())

	filters, err := h.parseFilters(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "fetching report view",
		slog.String("request_id", reqID),
		slog.String("view", name),
		slog.String("start_date", filters.StartDate),
		slog.String("end_date", filters.EndDate),
		slog.String("market", filters.Market),
	)

	data, count, err := view(r.Context(), filters)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute report view",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("view", name),
		)
		h.errorHandler.HandleError(w, r, apierrors.UpstreamError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
		"count":  count,
	})
}

// ExportReport handles GET /api/reports/export
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetReqID(r.Context())

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = "excel"
	}
	format, err := exporter.ParseFormat(formatParam)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_FORMAT",
			"Unsupported export format",
			map[string]interface{}{"format": formatParam},
		))
		return
	}

	filters, err := h.parseFilters(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	fileName := r.URL.Query().Get("filename")
	if fileName == "" {
		fileName = fmt.Sprintf("Report_%s_%s", filters.StartDate, filters.EndDate)
	}

	h.logger.InfoContext(r.Context(), "exporting report",
		slog.String("request_id", reqID),
		slog.String("format", format.String()),
		slog.String("file_name", fileName),
		slog.String("start_date", filters.StartDate),
		slog.String("end_date", filters.EndDate),
	)

	data, err := h.service.Generate(r.Context(), filters)
	if err != nil {
		h.observeExport(format, err)
		h.logger.ErrorContext(r.Context(), "failed to generate report data",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.UpstreamError(err))
		return
	}
	if data.Empty() {
		h.observeExport(format, apierrors.ErrEmptyReport)
		h.errorHandler.HandleError(w, r, apierrors.ErrEmptyReport)
		return
	}

	exp, err := exporter.New(format, h.logger, exporter.Options{Title: h.exportTitle})
	if err != nil {
		h.observeExport(format, err)
		h.errorHandler.HandleError(w, r, apierrors.ExportError(format.String(), err))
		return
	}

	artifact, err := exp.Export(r.Context(), data, fileName)
	if err != nil {
		h.observeExport(format, err)
		h.logger.ErrorContext(r.Context(), "failed to export report",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("format", format.String()),
		)
		h.errorHandler.HandleError(w, r, apierrors.ExportError(format.String(), err))
		return
	}
	h.observeExport(format, nil)

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Content)
}

func (h *ReportHandler) observeExport(format exporter.Format, err error) {
	if h.metrics != nil {
		h.metrics.ObserveExport(format.String(), err)
	}
}
