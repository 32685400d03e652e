package agreement

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"nfticket/internal/minting"
	"nfticket/internal/shared/redislock"
	"nfticket/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// callerID reads the authenticated principal from the JWT context set by the
// middleware.
func callerID(ctx *gin.Context) (uuid.UUID, bool) {
	idInterface, exists := ctx.Get("principal_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Not authenticated", nil, nil)
		return uuid.Nil, false
	}

	idStr, ok := idInterface.(string)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid principal ID format", nil, nil)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid principal ID", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// agreementID parses the :id path parameter.
func agreementID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid agreement ID", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(ctx *gin.Context, err error) {
	// The minting client wraps its sentinel with transport detail.
	if errors.Is(err, minting.ErrMintingServiceUnavailable) {
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Minting service unavailable", nil, nil)
		return
	}

	switch err {
	case ErrAgreementNotFound:
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Agreement not found", nil, nil)
	case ErrSectionNotFound:
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Section not found", nil, nil)
	case ErrTicketNotFound:
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
	case ErrUnauthorized:
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Caller is not permitted to perform this operation", nil, nil)
	case ErrVenueAndEntertainerAreRequired:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Venue and entertainer are required", nil, nil)
	case ErrInvalidFeeBasisPoints:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Fee basis points are out of range", nil, nil)
	case ErrSectionAlreadyExists:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Section with this key already exists", nil, nil)
	case ErrContractNotReadyToSign:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Agreement terms are not complete", nil, nil)
	case ErrContractAlreadyFinalized:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Agreement is already finalized", nil, nil)
	case ErrContractNotFinalized:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Agreement is not finalized", nil, nil)
	case ErrSalesNotActive:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Ticket sales are not active", nil, nil)
	case ErrSalesStillActive:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Ticket sales are still active", nil, nil)
	case ErrSeatUnavailable:
		response.RespondJSON(ctx, "error", http.StatusConflict, "No seats available in this section", nil, nil)
	case ErrTicketAlreadyScanned:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Ticket has already been scanned", nil, nil)
	case ErrPayoutAlreadyCollected:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Payout has already been collected", nil, nil)
	case ErrInsufficientPaymentAmount:
		response.RespondJSON(ctx, "error", http.StatusPaymentRequired, "Payment amount does not cover the ticket price", nil, nil)
	case redislock.ErrNotAcquired:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Agreement is busy, try again", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
	}
}

// CreateAgreement handles POST /api/v1/agreements
func (c *Controller) CreateAgreement(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req CreateAgreementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, nil)
		return
	}
	entertainerID, err := uuid.Parse(req.EntertainerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid entertainer ID", nil, nil)
		return
	}

	a, err := c.service.CreateAgreement(ctx.Request.Context(), caller, venueID, entertainerID, req.ServiceFeeBasisPoints)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Agreement created successfully", NewAgreementResponse(a), nil)
}

// GetAgreement handles GET /api/v1/agreements/:id
func (c *Controller) GetAgreement(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}

	ctr, err := c.service.GetAgreement(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Agreement retrieved successfully", NewAgreementDetailResponse(ctr), nil)
}

// setTerm factors the shared shape of the five term setter handlers.
func (c *Controller) setTerm(ctx *gin.Context, message string, set func(cc context.Context, id, caller uuid.UUID, value int64) (*Agreement, error)) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req SetTermRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	a, err := set(ctx.Request.Context(), id, caller, *req.Value)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, NewAgreementResponse(a), nil)
}

// SetEventDateTime handles PUT /api/v1/agreements/:id/terms/event-date-time
func (c *Controller) SetEventDateTime(ctx *gin.Context) {
	c.setTerm(ctx, "Event date updated successfully", c.service.SetEventDateTime)
}

// SetSalesStart handles PUT /api/v1/agreements/:id/terms/sales-start
func (c *Controller) SetSalesStart(ctx *gin.Context) {
	c.setTerm(ctx, "Sales start updated successfully", c.service.SetSalesStart)
}

// SetSalesEnd handles PUT /api/v1/agreements/:id/terms/sales-end
func (c *Controller) SetSalesEnd(ctx *gin.Context) {
	c.setTerm(ctx, "Sales end updated successfully", c.service.SetSalesEnd)
}

// SetDefaultTicketPrice handles PUT /api/v1/agreements/:id/terms/default-ticket-price
func (c *Controller) SetDefaultTicketPrice(ctx *gin.Context) {
	c.setTerm(ctx, "Default ticket price updated successfully", c.service.SetDefaultTicketPrice)
}

// SetVenueFeeBasisPoints handles PUT /api/v1/agreements/:id/terms/venue-fee-basis-points
func (c *Controller) SetVenueFeeBasisPoints(ctx *gin.Context) {
	c.setTerm(ctx, "Venue fee updated successfully", c.service.SetVenueFeeBasisPoints)
}

// AddSection handles POST /api/v1/agreements/:id/sections
func (c *Controller) AddSection(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req AddSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	sec, err := c.service.AddSection(ctx.Request.Context(), id, caller, req.Key, req.Capacity)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Section added successfully", sec, nil)
}

// ListSections handles GET /api/v1/agreements/:id/sections
func (c *Controller) ListSections(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}

	keys, err := c.service.ListSectionKeys(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Sections retrieved successfully", SectionKeysResponse{Keys: keys, Count: len(keys)}, nil)
}

// GetSection handles GET /api/v1/agreements/:id/sections/:key
func (c *Controller) GetSection(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}

	sec, err := c.service.GetSection(ctx.Request.Context(), id, ctx.Param("key"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Section retrieved successfully", sec, nil)
}

// SetSectionPrice handles PUT /api/v1/agreements/:id/sections/:key/ticket-price
func (c *Controller) SetSectionPrice(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req SetSectionPriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	sec, err := c.service.SetSectionTicketPrice(ctx.Request.Context(), id, caller, ctx.Param("key"), *req.Price)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Section price updated successfully", sec, nil)
}

// SetSectionCapacity handles PUT /api/v1/agreements/:id/sections/:key/capacity
func (c *Controller) SetSectionCapacity(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req SetSectionCapacityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	sec, err := c.service.SetSectionCapacity(ctx.Request.Context(), id, caller, ctx.Param("key"), *req.Capacity)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Section capacity updated successfully", sec, nil)
}

// RemoveSection handles DELETE /api/v1/agreements/:id/sections/:key
func (c *Controller) RemoveSection(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	if err := c.service.RemoveSection(ctx.Request.Context(), id, caller, ctx.Param("key")); err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Section removed successfully", nil, nil)
}

// SignContract handles POST /api/v1/agreements/:id/sign
func (c *Controller) SignContract(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	a, err := c.service.SignContract(ctx.Request.Context(), id, caller)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Agreement signed successfully", NewAgreementResponse(a), nil)
}

// CreateNft handles POST /api/v1/agreements/:id/nft
func (c *Controller) CreateNft(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req CreateNftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	collectionID, err := c.service.CreateNft(ctx.Request.Context(), id, caller, &minting.CreateCollectionRequest{
		Name:      req.Name,
		Symbol:    req.Symbol,
		Memo:      req.Memo,
		MaxSupply: req.MaxSupply,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "NFT collection created successfully", CreateNftResponse{CollectionID: collectionID}, nil)
}

// PurchaseTicket handles POST /api/v1/agreements/:id/tickets
func (c *Controller) PurchaseTicket(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req PurchaseTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	buyerAccount := req.BuyerAccount
	if buyerAccount == "" {
		if wallet, exists := ctx.Get("wallet_account"); exists {
			buyerAccount, _ = wallet.(string)
		}
	}

	tkt, err := c.service.PurchaseTicket(ctx.Request.Context(), id, caller, buyerAccount, req.SectionKey, req.Metadata, req.Amount)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Ticket purchased successfully", tkt, nil)
}

// GetTicket handles GET /api/v1/agreements/:id/tickets/:serial
func (c *Controller) GetTicket(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}

	serial, err := strconv.ParseInt(ctx.Param("serial"), 10, 64)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid ticket serial", nil, nil)
		return
	}

	tkt, err := c.service.GetTicket(ctx.Request.Context(), id, serial)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket retrieved successfully", tkt, nil)
}

// ScanTicket handles POST /api/v1/agreements/:id/tickets/:serial/scan
func (c *Controller) ScanTicket(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	serial, err := strconv.ParseInt(ctx.Param("serial"), 10, 64)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid ticket serial", nil, nil)
		return
	}

	tkt, err := c.service.ScanTicket(ctx.Request.Context(), id, caller, serial)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket scanned successfully", tkt, nil)
}

// CollectPayout handles POST /api/v1/agreements/:id/payouts
func (c *Controller) CollectPayout(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	payout, err := c.service.CollectPayout(ctx.Request.Context(), id, caller)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payout collected successfully", payout, nil)
}

// Deposit handles POST /api/v1/agreements/:id/deposits
func (c *Controller) Deposit(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	var req DepositRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	a, err := c.service.Deposit(ctx.Request.Context(), id, caller, req.Amount)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Deposit recorded successfully", BalanceResponse{Balance: a.Balance}, nil)
}

// GetBalance handles GET /api/v1/agreements/:id/balance
func (c *Controller) GetBalance(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}

	balance, err := c.service.GetBalance(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Balance retrieved successfully", BalanceResponse{Balance: balance}, nil)
}

// ListLedger handles GET /api/v1/agreements/:id/ledger
func (c *Controller) ListLedger(ctx *gin.Context) {
	id, ok := agreementID(ctx)
	if !ok {
		return
	}

	entries, err := c.service.ListLedger(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ledger retrieved successfully", gin.H{
		"entries": entries,
		"count":   len(entries),
	}, nil)
}
