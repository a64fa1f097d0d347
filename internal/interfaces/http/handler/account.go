package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
)

// AccountHandler exposes settlement account endpoints
type AccountHandler struct {
	BaseHandler
	accounts finance.Repository
	ledger   finance.Ledger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts finance.Repository, ledger finance.Ledger) *AccountHandler {
	return &AccountHandler{accounts: accounts, ledger: ledger}
}

// RegisterRoutes registers the account endpoints
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/finance/accounts")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.GET("/:id/balance", h.Balance)
	}
}

// CreateAccountRequest creates a settlement account
type CreateAccountRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	SerialNo       string  `json:"serial_no" binding:"required,min=1,max=50"`
	InitialBalance float64 `json:"initial_balance"`
	Remark         string  `json:"remark"`
}

// ListAccountsRequest carries the account listing filters
type ListAccountsRequest struct {
	Search   string `form:"search"`
	Enabled  *bool  `form:"enabled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AccountResponse is one settlement account in API responses
type AccountResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SerialNo       string    `json:"serial_no"`
	InitialBalance string    `json:"initial_balance"`
	CurrentBalance string    `json:"current_balance"`
	Remark         string    `json:"remark,omitempty"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAccountResponse(account *finance.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID.String(),
		Name:           account.Name,
		SerialNo:       account.SerialNo,
		InitialBalance: account.InitialBalance.String(),
		CurrentBalance: account.CurrentBalance.String(),
		Remark:         account.Remark,
		Enabled:        account.Enabled,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

// Create creates a settlement account
func (h *AccountHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := finance.NewAccount(tenantID, req.Name, req.SerialNo, toDecimal(req.InitialBalance))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	account.Remark = req.Remark
	if userID, err := getUserID(c); err == nil {
		account.SetCreatedBy(userID)
	}

	if err := h.accounts.Save(c.Request.Context(), account); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAccountResponse(account))
}

// List returns a page of settlement accounts
func (h *AccountHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	var req ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
	if req.Enabled != nil {
		filter.Filters["enabled"] = *req.Enabled
	}

	page, err := h.accounts.FindAll(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AccountResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, toAccountResponse(&page.Items[i]))
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// Get returns one settlement account
func (h *AccountHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accounts.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAccountResponse(account))
}

// Balance returns an account's current ledger balance
func (h *AccountHandler) Balance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"account_id": id.String(), "balance": balance.String()})
}
