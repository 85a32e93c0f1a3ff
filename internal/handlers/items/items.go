package items

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/dto"
	"github.com/GlebRadaev/marketplace/pkg/auth"
	"github.com/GlebRadaev/marketplace/pkg/utils"
)

type Service interface {
	AddItem(ctx context.Context, sellerID, sellerName string, data domain.NewItem) (*domain.Item, error)
	UpdateItem(ctx context.Context, requesterID, id string, update domain.ItemUpdate) (*domain.Item, error)
	RemoveItem(ctx context.Context, requesterID, id string) error
	PurchaseItem(ctx context.Context, buyer *domain.Buyer, itemID string) (*domain.Transaction, error)
	GetItemByID(ctx context.Context, id string) (*domain.Item, error)
	Browse(ctx context.Context, filter domain.BrowseFilter) ([]domain.Item, error)
	Categories(ctx context.Context) ([]string, error)
	UserItems(ctx context.Context, sellerID string) ([]domain.Item, error)
	PurchasedItems(ctx context.Context, buyerID string) ([]domain.Item, error)
	Transactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

type IdentityService interface {
	Current(ctx context.Context, sessionID string) (*domain.User, error)
}

type ItemsHandler struct {
	marketService   Service
	identityService IdentityService
}

func New(marketService Service, identityService IdentityService) *ItemsHandler {
	return &ItemsHandler{
		marketService:   marketService,
		identityService: identityService,
	}
}

// Browse godoc
//
//	@Summary		Browse listings
//	@Description	Available listings filtered by search term, category and price bounds. The caller's own listings are hidden when a token is sent.
//	@Tags			Items
//	@Produce		json
//	@Param			q			query		string	false	"Case-insensitive term matched against name, description and category"
//	@Param			category	query		string	false	"Exact category, or all"
//	@Param			min_price	query		number	false	"Lower price bound, inclusive"
//	@Param			max_price	query		number	false	"Upper price bound, inclusive"
//	@Success		200			{array}		dto.ItemDTO
//	@Failure		400			{object}	utils.Response	"Invalid price bound"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/items [get]
func (h *ItemsHandler) Browse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.BrowseFilter{
		Term:     query.Get("q"),
		Category: query.Get("category"),
	}
	var err error
	if filter.MinPrice, err = parsePrice(query.Get("min_price")); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid min_price")
		return
	}
	if filter.MaxPrice, err = parsePrice(query.Get("max_price")); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid max_price")
		return
	}
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		filter.ExcludeSellerID = userID
	}

	items, err := h.marketService.Browse(r.Context(), filter)
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromItems(items))
}

// Categories godoc
//
//	@Summary		List categories
//	@Description	The all wildcard followed by every category in order of first appearance.
//	@Tags			Items
//	@Produce		json
//	@Success		200	{array}		string
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/items/categories [get]
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.marketService.Categories(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// GetItem godoc
//
//	@Summary		Get a listing
//	@Tags			Items
//	@Produce		json
//	@Param			id	path		string	true	"Item id"
//	@Success		200	{object}	dto.ItemDTO
//	@Failure		404	{object}	utils.Response	"Item not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/items/{id} [get]
func (h *ItemsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.marketService.GetItemByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromItem(item))
}

// CreateItem godoc
//
//	@Summary		List an item for sale
//	@Description	The listing is owned by the caller and starts out available.
//	@Tags			Items
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateItemRequestDTO	true	"New listing"
//	@Success		201		{object}	dto.ItemDTO
//	@Failure		400		{object}	utils.Response	"Invalid listing"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/items [post]
func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name and category are required")
		return
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	item, err := h.marketService.AddItem(r.Context(), user.ID, user.Username, req.ToNewItem())
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.FromItem(item))
}

// UpdateItem godoc
//
//	@Summary		Update own listing
//	@Description	Merge the sent fields into the listing. A sold item cannot be made available again.
//	@Tags			Items
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Item id"
//	@Param			request	body		dto.UpdateItemRequestDTO	true	"Fields to change"
//	@Success		200		{object}	dto.ItemDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Not the seller"
//	@Failure		404		{object}	utils.Response	"Item not found"
//	@Failure		409		{object}	utils.Response	"Sold items cannot be relisted"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/items/{id} [patch]
func (h *ItemsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())

	item, err := h.marketService.UpdateItem(r.Context(), userID, chi.URLParam(r, "id"), req.ToItemUpdate())
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromItem(item))
}

// DeleteItem godoc
//
//	@Summary		Remove own listing
//	@Description	Ledger entries for the item are kept.
//	@Tags			Items
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Item id"
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Not the seller"
//	@Failure		404	{object}	utils.Response	"Item not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/items/{id} [delete]
func (h *ItemsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.marketService.RemoveItem(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Item removed"})
}

// Purchase godoc
//
//	@Summary		Buy an item
//	@Description	Marks the item sold, moves the price from buyer to seller and records a ledger entry.
//	@Tags			Items
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Item id"
//	@Success		200	{object}	dto.TransactionDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		402	{object}	utils.Response	"Insufficient funds"
//	@Failure		403	{object}	utils.Response	"Own item"
//	@Failure		404	{object}	utils.Response	"Item not found"
//	@Failure		409	{object}	utils.Response	"Item no longer available"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/items/{id}/purchase [post]
func (h *ItemsHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	transaction, err := h.marketService.PurchaseItem(r.Context(), user.AsBuyer(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromTransaction(transaction))
}

// MyItems godoc
//
//	@Summary		Own listings
//	@Description	Every listing of the caller, sold or not.
//	@Tags			User
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.ItemDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/items [get]
func (h *ItemsHandler) MyItems(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	items, err := h.marketService.UserItems(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromItems(items))
}

// Purchases godoc
//
//	@Summary		Purchased items
//	@Description	One entry per purchase. Items that are no longer listed are rebuilt from the ledger.
//	@Tags			User
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.ItemDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/purchases [get]
func (h *ItemsHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	items, err := h.marketService.PurchasedItems(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromItems(items))
}

// Transactions godoc
//
//	@Summary		Own ledger entries
//	@Description	Entries where the caller is buyer or seller, oldest first.
//	@Tags			User
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.TransactionDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/transactions [get]
func (h *ItemsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	transactions, err := h.marketService.Transactions(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromTransactions(transactions))
}

func (h *ItemsHandler) currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	sessionID, _ := auth.SessionIDFromContext(r.Context())
	user, err := h.identityService.Current(r.Context(), sessionID)
	if err != nil {
		respondWithError(w, err)
		return nil, false
	}
	return user, true
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func respondWithError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrItemUnavailable), errors.Is(err, domain.ErrRelist):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSelfPurchase), errors.Is(err, domain.ErrNotOwner):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
