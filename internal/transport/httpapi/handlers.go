package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
)

// OrderHandlers — тонкий HTTP-адаптер над прикладным сервисом заказов.
// Никакой бизнес-логики: только трансляция запросов и ошибок.
type OrderHandlers struct {
	service *checkout.Service
	logger  *log.Entry
}

// NewOrderHandlers создаёт обработчики HTTP API заказов.
func NewOrderHandlers(service *checkout.Service, logger *log.Entry) *OrderHandlers {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &OrderHandlers{
		service: service,
		logger:  logger,
	}
}

// Register привязывает маршруты к echo-приложению.
func (h *OrderHandlers) Register(e *echo.Echo) {
	e.POST("/orders", h.CreateOrder)
	e.GET("/orders", h.ListOrders)
	e.GET("/orders/:id", h.GetOrder)
	e.POST("/orders/:id/items", h.AddItem)
	e.DELETE("/orders/:id/items/:itemID", h.RemoveItem)
	e.PATCH("/orders/:id/items/:itemID/quantity", h.ChangeItemQuantity)
}

type itemRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID string        `json:"customer_id"`
	Items      []itemRequest `json:"items"`
}

type changeQuantityRequest struct {
	// Amount > 0 увеличивает количество, < 0 — уменьшает.
	Amount int `json:"amount"`
}

type itemResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type orderResponse struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	Total      float64        `json:"total"`
	Items      []itemResponse `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateOrder обрабатывает POST /orders.
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	order, err := h.service.PlaceOrder(req.CustomerID, toItemInputs(req.Items))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// GetOrder обрабатывает GET /orders/:id.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListOrders обрабатывает GET /orders.
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	orders, err := h.service.ListOrders()
	if err != nil {
		return h.writeError(c, err)
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}
	return c.JSON(http.StatusOK, response)
}

// AddItem обрабатывает POST /orders/:id/items.
func (h *OrderHandlers) AddItem(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	order, err := h.service.AddItem(c.Param("id"), toItemInput(req))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// RemoveItem обрабатывает DELETE /orders/:id/items/:itemID.
func (h *OrderHandlers) RemoveItem(c echo.Context) error {
	order, err := h.service.RemoveItem(c.Param("id"), c.Param("itemID"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ChangeItemQuantity обрабатывает PATCH /orders/:id/items/:itemID/quantity.
func (h *OrderHandlers) ChangeItemQuantity(c echo.Context) error {
	var req changeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.Amount == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "amount must not be zero"})
	}

	var (
		order *domain.Order
		err   error
	)
	if req.Amount > 0 {
		order, err = h.service.IncreaseItemQuantity(c.Param("id"), c.Param("itemID"), req.Amount)
	} else {
		order, err = h.service.DecreaseItemQuantity(c.Param("id"), c.Param("itemID"), -req.Amount)
	}
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// writeError транслирует доменную таксономию ошибок в HTTP-статусы.
func (h *OrderHandlers) writeError(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case domain.IsNotFound(err):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.logger.WithError(err).Error("order operation failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func toItemInput(req itemRequest) checkout.ItemInput {
	return checkout.ItemInput{
		ID:        req.ID,
		Name:      req.Name,
		Price:     req.Price,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
}

func toItemInputs(reqs []itemRequest) []checkout.ItemInput {
	inputs := make([]checkout.ItemInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, toItemInput(req))
	}
	return inputs
}

func toOrderResponse(order *domain.Order) orderResponse {
	items := order.Items()
	response := orderResponse{
		ID:         order.ID(),
		CustomerID: order.CustomerID(),
		Total:      order.Total(),
		Items:      make([]itemResponse, 0, len(items)),
	}
	for _, item := range items {
		response.Items = append(response.Items, itemResponse{
			ID:        item.ID(),
			Name:      item.Name(),
			Price:     item.Price(),
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			Subtotal:  item.Subtotal(),
		})
	}
	return response
}
