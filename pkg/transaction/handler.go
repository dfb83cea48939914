package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/spendpace/internal/rest"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	Id         int             `json:"id"`
	Date       time.Time       `json:"date"`
	Day        string          `json:"day,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Income     bool            `json:"income"`
	CategoryId *int            `json:"categoryId,omitempty"`
	Note       string          `json:"note,omitempty"`
}

type CategoryDTO struct {
	Id     int    `json:"id"`
	Name   string `json:"name"`
	Income bool   `json:"income"`
	Order  int    `json:"order"`
	Color  string `json:"color,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetTransactions godoc
// @Summary List transactions in a date range
// @Tags Transaction
// @Produce json
// @Param from query string true "Start of the range (RFC3339), inclusive"
// @Param to query string true "End of the range (RFC3339), exclusive"
// @Success 200 {array} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date range"
// @Router /api/transaction [get]
// @Security XUserId
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid 'from' date", err.Error())
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid 'to' date", err.Error())
		return
	}
	if !to.After(from) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date range", "'to' must be after 'from'")
		return
	}

	transactions, err := h.service.GetBetween(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	result := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		result = append(result, TransactionToDTO(t))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid transaction"
// @Router /api/transaction [post]
// @Security XUserId
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new transaction")
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), DTOToTransaction(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, TransactionToDTO(created))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags Transaction
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Transaction not found"
// @Router /api/transaction/{id} [delete]
// @Security XUserId
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction id", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	result := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryToDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, err := h.service.CreateCategory(r.Context(), DTOToCategory(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, CategoryToDTO(created))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
	case errors.Is(err, ErrTransactionNotFound):
		rest.WriteError(w, http.StatusNotFound, "Transaction not found", "")
	case errors.Is(err, ErrCategoryNotFound):
		rest.WriteError(w, http.StatusBadRequest, "Category not found", err.Error())
	case errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrCategoryMismatch), errors.Is(err, ErrInvalidCategory):
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction data", err.Error())
	default:
		log.Errorf("transaction request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func TransactionToDTO(t Transaction) TransactionDTO {
	dto := TransactionDTO{
		Id:         t.Id,
		Date:       t.Date,
		Amount:     t.Amount,
		Income:     t.Income,
		CategoryId: t.CategoryId,
		Note:       t.Note,
	}
	if !t.Day.IsZero() {
		dto.Day = t.Day.Format(time.DateOnly)
	}
	return dto
}

// DTOToTransaction ignores the day sent by clients, it is always derived on write.
func DTOToTransaction(dto TransactionDTO) Transaction {
	return Transaction{
		Id:         dto.Id,
		Date:       dto.Date,
		Amount:     dto.Amount,
		Income:     dto.Income,
		CategoryId: dto.CategoryId,
		Note:       dto.Note,
	}
}

func CategoryToDTO(c Category) CategoryDTO {
	return CategoryDTO{Id: c.Id, Name: c.Name, Income: c.Income, Order: c.Order, Color: c.Color}
}

func DTOToCategory(dto CategoryDTO) Category {
	return Category{Id: dto.Id, Name: dto.Name, Income: dto.Income, Order: dto.Order, Color: dto.Color}
}
