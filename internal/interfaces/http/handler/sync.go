package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/shopbridge/backend/internal/application/integration"
	"github.com/shopbridge/backend/internal/domain/integration"
	"github.com/shopbridge/backend/internal/interfaces/http/dto"
)

// SyncHandler handles sync ingestion endpoints. Ingestion is asynchronous:
// payloads are validated, mapped, and enqueued; the platform write happens
// later on the queue side.
type SyncHandler struct {
	BaseHandler
	orderMapper   *appintegration.OrderMapper
	productMapper *appintegration.ProductMapper
	queue         integration.SyncQueue
	syncService   *appintegration.OrderSyncService
	minHoursAgo   int
	maxHoursAgo   int
	logger        *zap.Logger
}

// NewSyncHandler creates a new SyncHandler. minHoursAgo/maxHoursAgo are the
// configured pull-window bounds applied when a pull request omits its own;
// an unusable pair falls back to the standard window.
func NewSyncHandler(
	orderMapper *appintegration.OrderMapper,
	productMapper *appintegration.ProductMapper,
	queue integration.SyncQueue,
	syncService *appintegration.OrderSyncService,
	minHoursAgo, maxHoursAgo int,
	logger *zap.Logger,
) *SyncHandler {
	if minHoursAgo < 0 || minHoursAgo >= maxHoursAgo {
		minHoursAgo = appintegration.DefaultMinHoursAgo
		maxHoursAgo = appintegration.DefaultMaxHoursAgo
	}
	return &SyncHandler{
		orderMapper:   orderMapper,
		productMapper: productMapper,
		queue:         queue,
		syncService:   syncService,
		minHoursAgo:   minHoursAgo,
		maxHoursAgo:   maxHoursAgo,
		logger:        logger,
	}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/orders", h.SyncOrders)
		sync.POST("/orders/pull", h.PullOrders)
		sync.POST("/products", h.SyncProducts)
	}
}

// SyncOrders accepts a single order payload or an "orders" batch and queues
// each valid element for dispatch. A batch with some invalid elements still
// queues the valid ones; the response reports only what was accepted.
func (h *SyncHandler) SyncOrders(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "request body must be a JSON object")
		return
	}

	imports, failures := h.orderMapper.MapBatch(payload)
	for _, failure := range failures {
		h.logger.Warn("rejected order payload", zap.Error(failure))
	}
	if len(imports) == 0 {
		h.ErrorWithCode(c, dto.ErrCodeValidation, firstErrorMessage(failures, "no valid orders in payload"))
		return
	}

	externalIDs := make([]string, 0, len(imports))
	for _, imp := range imports {
		msg := integration.NewOrderSyncMessage(imp)
		if err := h.queue.EnqueueOrder(c.Request.Context(), msg); err != nil {
			h.logger.Error("order enqueue failed",
				zap.String("external_id", imp.ExternalID),
				zap.Error(err))
			h.Internal(c, "failed to queue orders")
			return
		}
		externalIDs = append(externalIDs, imp.ExternalID)
	}

	h.Accepted(c, dto.NewQueuedResponse(externalIDs))
}

// SyncProducts accepts a single product payload or a "products" batch.
func (h *SyncHandler) SyncProducts(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "request body must be a JSON object")
		return
	}

	imports, failures := h.productMapper.MapBatch(payload)
	for _, failure := range failures {
		h.logger.Warn("rejected product payload", zap.Error(failure))
	}
	if len(imports) == 0 {
		h.ErrorWithCode(c, dto.ErrCodeValidation, firstErrorMessage(failures, "no valid products in payload"))
		return
	}

	externalIDs := make([]string, 0, len(imports))
	for _, imp := range imports {
		msg := integration.NewProductSyncMessage(imp)
		if err := h.queue.EnqueueProduct(c.Request.Context(), msg); err != nil {
			h.logger.Error("product enqueue failed",
				zap.String("external_id", imp.ExternalID),
				zap.Error(err))
			h.Internal(c, "failed to queue products")
			return
		}
		externalIDs = append(externalIDs, imp.ExternalID)
	}

	h.Accepted(c, dto.NewQueuedResponse(externalIDs))
}

// PullOrders pulls recent platform orders inside the configured window and
// queues them for dispatch.
func (h *SyncHandler) PullOrders(c *gin.Context) {
	var req dto.PullRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "invalid pull request body")
			return
		}
	}

	minHours := h.minHoursAgo
	maxHours := h.maxHoursAgo
	if req.MinHoursAgo != nil {
		minHours = *req.MinHoursAgo
	}
	if req.MaxHoursAgo != nil {
		maxHours = *req.MaxHoursAgo
	}

	count, err := h.syncService.SyncWindow(c.Request.Context(), minHours, maxHours)
	if err != nil {
		switch {
		case errors.Is(err, integration.ErrInvalidArgument):
			h.ErrorWithCode(c, dto.ErrCodeValidation, err.Error())
		case errors.Is(err, integration.ErrTransport):
			h.ErrorWithCode(c, dto.ErrCodePlatformUnavailable, "platform request failed")
		case errors.Is(err, integration.ErrPlatformRejected):
			h.ErrorWithCode(c, dto.ErrCodePlatformRejected, "platform rejected the pull request")
		default:
			h.Internal(c, "order pull failed")
		}
		return
	}

	h.Accepted(c, dto.PullResponse{Status: "queued", Count: count})
}

func firstErrorMessage(failures []error, fallback string) string {
	if len(failures) > 0 {
		return failures[0].Error()
	}
	return fallback
}
