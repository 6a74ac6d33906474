package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	s "github.com/goshop/cart-checkout/internal/service"
)

type CartHandler struct {
	engine *s.CartEngine
}

func NewCartHandler(engine *s.CartEngine) *CartHandler {
	return &CartHandler{engine: engine}
}

type OrderHandler struct {
	coordinator *s.CheckoutCoordinator
}

func NewOrderHandler(coordinator *s.CheckoutCoordinator) *OrderHandler {
	return &OrderHandler{coordinator: coordinator}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())

	cart, err := h.engine.GetCart(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.engine.AddItem(r.Context(), ownerID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	var req SetQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.engine.SetItemQuantity(r.Context(), ownerID, productID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	cart, err := h.engine.RemoveItem(r.Context(), ownerID, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())

	cart, err := h.engine.Clear(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())

	order, err := h.coordinator.Checkout(r.Context(), ownerID)
	if err != nil {
		if order != nil {
			// Order is durable, only the cart clear failed. The retried
			// clear is the client's path out of the ghost-cart state.
			log.Printf("checkout for owner %s: %v", ownerID, err)
			respondJSON(w, http.StatusCreated, order)
			return
		}
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())

	orders, err := h.coordinator.Orders(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case s.IsValidation(err):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case s.IsNotFound(err):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case s.IsEmptyCart(err):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
