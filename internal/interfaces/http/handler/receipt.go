package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	receiptapp "github.com/erp/backoffice/internal/application/receipt"
	"github.com/erp/backoffice/internal/domain/notification"
	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
)

// ReceiptHandler exposes the endpoints of one document kind. The same
// handler serves every kind; the wired processor decides which.
type ReceiptHandler struct {
	BaseHandler
	processor *receiptapp.Processor
	prefix    string
}

// NewReceiptHandler creates a handler serving the processor's kind
// under the given route prefix, e.g. "/purchase/storages".
func NewReceiptHandler(processor *receiptapp.Processor, prefix string) *ReceiptHandler {
	return &ReceiptHandler{
		processor: processor,
		prefix:    prefix,
	}
}

// RegisterRoutes registers the document endpoints
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(h.prefix)
	{
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("", h.Delete)
		group.POST("/status", h.UpdateStatus)
		group.GET("", h.List)
		group.GET("/export", h.Export)
		group.GET("/number/:number", h.GetByNumber)
		group.GET("/:id", h.Get)
	}
}

// ReceiptLineRequest is one document line in create/update requests
type ReceiptLineRequest struct {
	SkuID       string  `json:"sku_id" binding:"required,uuid"`
	WarehouseID *string `json:"warehouse_id" binding:"omitempty,uuid"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
	TaxRate     float64 `json:"tax_rate"`
	TaxAmount   float64 `json:"tax_amount"`
	TaxTotal    float64 `json:"tax_total"`
	Remark      string  `json:"remark"`
}

// ReceiptRequest is the create/update payload for one document.
// Amounts are submitted unsigned.
type ReceiptRequest struct {
	ReceiptNumber      string               `json:"receipt_number"`
	LinkNumber         string               `json:"link_number"`
	CounterpartyID     string               `json:"counterparty_id" binding:"required,uuid"`
	ReceiptDate        string               `json:"receipt_date"`
	OperatorIDs        []string             `json:"operator_ids" binding:"omitempty,dive,uuid"`
	AccountID          *string              `json:"account_id" binding:"omitempty,uuid"`
	AccountIDs         []string             `json:"account_ids" binding:"omitempty,dive,uuid"`
	AccountAmounts     []float64            `json:"account_amounts"`
	DiscountRate       float64              `json:"discount_rate"`
	DiscountAmount     float64              `json:"discount_amount"`
	DiscountLastAmount float64              `json:"discount_last_amount"`
	OtherAmount        float64              `json:"other_amount"`
	Deposit            float64              `json:"deposit"`
	ChangeAmount       float64              `json:"change_amount"`
	FileIDs            []string             `json:"file_ids" binding:"omitempty,dive,uuid"`
	Remark             string               `json:"remark"`
	Lines              []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// DeleteReceiptsRequest identifies the documents to delete
type DeleteReceiptsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

// UpdateReceiptStatusRequest moves documents to a new status
type UpdateReceiptStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1,dive,uuid"`
	Status string   `json:"status" binding:"required"`
}

// ListReceiptsRequest carries the listing filters
type ListReceiptsRequest struct {
	ReceiptNumber  string `form:"receipt_number"`
	Remark         string `form:"remark"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	OperatorID     string `form:"operator_id" binding:"omitempty,uuid"`
	CreatedBy      string `form:"created_by" binding:"omitempty,uuid"`
	Status         string `form:"status"`
	BeginDate      string `form:"begin_date"`
	EndDate        string `form:"end_date"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Create creates a new document
func (h *ReceiptHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input, err := req.toInput(nil)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.processor.AddOrUpdate(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update replaces an existing document
func (h *ReceiptHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}
	var req ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input, err := req.toInput(&id)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.processor.AddOrUpdate(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete soft-deletes documents
func (h *ReceiptHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req DeleteReceiptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.processor.Delete(c.Request.Context(), actor, ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateStatus moves documents to a new status
func (h *ReceiptHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req UpdateReceiptStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	status := receipt.Status(strings.ToUpper(req.Status))
	if !status.IsValid() {
		h.BadRequest(c, fmt.Sprintf("Unknown status %q", req.Status))
		return
	}

	result, err := h.processor.UpdateStatus(c.Request.Context(), actor, ids, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get returns one document with resolved display fields
func (h *ReceiptHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	detail, err := h.processor.GetDetail(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// GetByNumber returns one document looked up by its receipt number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Receipt number is required")
		return
	}

	detail, err := h.processor.GetDetailByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// List returns a filtered page of documents
func (h *ReceiptHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	query, ok := h.pageQuery(c)
	if !ok {
		return
	}

	page, err := h.processor.GetPage(c.Request.Context(), tenantID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Export streams the filtered listing as an xlsx workbook
func (h *ReceiptHandler) Export(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	query, ok := h.pageQuery(c)
	if !ok {
		return
	}
	locale := notification.ParseLocale(middleware.GetJWTLanguage(c))

	f, err := h.processor.Export(c.Request.Context(), tenantID, query, locale)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", strings.ToLower(h.processor.Kind().String()), time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Writer); err != nil {
		h.InternalError(c, "Failed to write export")
	}
}

func (h *ReceiptHandler) actor(c *gin.Context) (receiptapp.Actor, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return receiptapp.Actor{}, false
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return receiptapp.Actor{}, false
	}
	return receiptapp.Actor{
		TenantID: tenantID,
		UserID:   userID,
		Language: middleware.GetJWTLanguage(c),
	}, true
}

func (h *ReceiptHandler) pageQuery(c *gin.Context) (receiptapp.PageQuery, bool) {
	var req ListReceiptsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return receiptapp.PageQuery{}, false
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := receiptapp.PageQuery{
		ReceiptNumber: req.ReceiptNumber,
		Remark:        req.Remark,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	var err error
	if query.CounterpartyID, err = parseOptionalUUID(req.CounterpartyID); err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return receiptapp.PageQuery{}, false
	}
	if query.OperatorID, err = parseOptionalUUID(req.OperatorID); err != nil {
		h.BadRequest(c, "Invalid operator ID format")
		return receiptapp.PageQuery{}, false
	}
	if query.CreatedBy, err = parseOptionalUUID(req.CreatedBy); err != nil {
		h.BadRequest(c, "Invalid creator ID format")
		return receiptapp.PageQuery{}, false
	}
	if req.Status != "" {
		status := receipt.Status(strings.ToUpper(req.Status))
		if !status.IsValid() {
			h.BadRequest(c, fmt.Sprintf("Unknown status %q", req.Status))
			return receiptapp.PageQuery{}, false
		}
		query.Status = &status
	}
	if req.BeginDate != "" {
		begin, err := time.Parse("2006-01-02", req.BeginDate)
		if err != nil {
			h.BadRequest(c, "Invalid begin_date, expected YYYY-MM-DD")
			return receiptapp.PageQuery{}, false
		}
		query.BeginDate = &begin
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return receiptapp.PageQuery{}, false
		}
		// Make the end date inclusive of the whole day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		query.EndDate = &end
	}
	return query, true
}

func (r *ReceiptRequest) toInput(id *uuid.UUID) (receiptapp.ReceiptInput, error) {
	counterpartyID, err := uuid.Parse(r.CounterpartyID)
	if err != nil {
		return receiptapp.ReceiptInput{}, fmt.Errorf("invalid counterparty ID: %w", err)
	}

	input := receiptapp.ReceiptInput{
		ID:                 id,
		ReceiptNumber:      r.ReceiptNumber,
		LinkNumber:         r.LinkNumber,
		CounterpartyID:     counterpartyID,
		DiscountRate:       toDecimal(r.DiscountRate),
		DiscountAmount:     toDecimal(r.DiscountAmount),
		DiscountLastAmount: toDecimal(r.DiscountLastAmount),
		OtherAmount:        toDecimal(r.OtherAmount),
		Deposit:            toDecimal(r.Deposit),
		ChangeAmount:       toDecimal(r.ChangeAmount),
		Remark:             r.Remark,
	}

	if r.ReceiptDate != "" {
		date, err := time.Parse("2006-01-02", r.ReceiptDate)
		if err != nil {
			return receiptapp.ReceiptInput{}, fmt.Errorf("invalid receipt date, expected YYYY-MM-DD")
		}
		input.ReceiptDate = date
	}
	if input.OperatorIDs, err = parseUUIDs(r.OperatorIDs); err != nil {
		return receiptapp.ReceiptInput{}, fmt.Errorf("invalid operator ID: %w", err)
	}
	if r.AccountID != nil && *r.AccountID != "" {
		accountID, err := uuid.Parse(*r.AccountID)
		if err != nil {
			return receiptapp.ReceiptInput{}, fmt.Errorf("invalid account ID: %w", err)
		}
		input.AccountID = &accountID
	}
	if input.AccountIDs, err = parseUUIDs(r.AccountIDs); err != nil {
		return receiptapp.ReceiptInput{}, fmt.Errorf("invalid account ID: %w", err)
	}
	for _, amount := range r.AccountAmounts {
		input.AccountAmounts = append(input.AccountAmounts, toDecimal(amount))
	}
	if input.FileIDs, err = parseUUIDs(r.FileIDs); err != nil {
		return receiptapp.ReceiptInput{}, fmt.Errorf("invalid file ID: %w", err)
	}

	for _, line := range r.Lines {
		skuID, err := uuid.Parse(line.SkuID)
		if err != nil {
			return receiptapp.ReceiptInput{}, fmt.Errorf("invalid SKU ID: %w", err)
		}
		lineInput := receiptapp.LineInput{
			SkuID:     skuID,
			Quantity:  toDecimal(line.Quantity),
			UnitPrice: toDecimal(line.UnitPrice),
			TaxRate:   toDecimal(line.TaxRate),
			TaxAmount: toDecimal(line.TaxAmount),
			TaxTotal:  toDecimal(line.TaxTotal),
			Remark:    line.Remark,
		}
		if line.WarehouseID != nil && *line.WarehouseID != "" {
			warehouseID, err := uuid.Parse(*line.WarehouseID)
			if err != nil {
				return receiptapp.ReceiptInput{}, fmt.Errorf("invalid warehouse ID: %w", err)
			}
			lineInput.WarehouseID = &warehouseID
		}
		input.Lines = append(input.Lines, lineInput)
	}
	return input, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
