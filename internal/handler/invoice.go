package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-statement/internal/model"
	"github.com/iliyamo/theater-statement/internal/repository"
)

// InvoiceHandler stores invoices so statements can later be requested by id.
type InvoiceHandler struct {
	InvoiceRepo *repository.InvoiceRepo
}

// NewInvoiceHandler returns an InvoiceHandler backed by repo.
func NewInvoiceHandler(repo *repository.InvoiceRepo) *InvoiceHandler {
	if repo == nil {
		panic("nil repository passed to NewInvoiceHandler")
	}
	return &InvoiceHandler{InvoiceRepo: repo}
}

// Create handles POST /v1/invoices.  Play ids are not checked here;
// unknown ids surface when the statement is built.
func (h *InvoiceHandler) Create(c echo.Context) error {
	var inv model.Invoice
	if err := c.Bind(&inv); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(inv.Customer) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer is required"})
	}
	for _, p := range inv.Performances {
		if p.PlayID == "" || p.Audience < 0 || int64(p.Audience) > repository.MaxAudience {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": fmt.Sprintf("each performance needs a playID and an audience between 0 and %d", int64(repository.MaxAudience)),
			})
		}
	}
	inv.ID = 0
	if err := h.InvoiceRepo.Create(c.Request().Context(), &inv); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}
