// Package handler exposes the HTTP handlers of the statement API.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-statement/internal/currency"
	"github.com/iliyamo/theater-statement/internal/middleware"
	"github.com/iliyamo/theater-statement/internal/model"
	"github.com/iliyamo/theater-statement/internal/queue"
	"github.com/iliyamo/theater-statement/internal/repository"
	"github.com/iliyamo/theater-statement/internal/statement"
)

// EventPublisher delivers statement.issued events.  Implemented by
// queue_publisher.Publisher.
type EventPublisher interface {
	PublishStatementIssued(ctx context.Context, ev queue.StatementIssuedEvent) error
}

// StatementHandler computes statements for ad-hoc invoices and for
// invoices stored in the database.
type StatementHandler struct {
	Builder     *statement.Builder
	PlayRepo    *repository.PlayRepo
	InvoiceRepo *repository.InvoiceRepo
	Events      EventPublisher // nil disables publishing

	now func() time.Time
}

// NewStatementHandler wires a StatementHandler.  events may be nil.
func NewStatementHandler(b *statement.Builder, plays *repository.PlayRepo, invoices *repository.InvoiceRepo, events EventPublisher) *StatementHandler {
	if b == nil || plays == nil || invoices == nil {
		panic("nil dependency passed to NewStatementHandler")
	}
	return &StatementHandler{
		Builder:     b,
		PlayRepo:    plays,
		InvoiceRepo: invoices,
		Events:      events,
		now:         time.Now,
	}
}

type statementRequest struct {
	Invoice model.Invoice `json:"invoice"`
	Plays   model.Plays   `json:"plays"`
}

type lineResponse struct {
	statement.Line
	AmountDisplay string `json:"amount_display"`
}

type statementResponse struct {
	InvoiceID          uint64         `json:"invoice_id,omitempty"`
	Customer           string         `json:"customer"`
	Currency           string         `json:"currency"`
	Lines              []lineResponse `json:"lines"`
	TotalAmount        int64          `json:"total_amount"`
	TotalAmountDisplay string         `json:"total_amount_display"`
	TotalCredits       int            `json:"total_credits"`
}

// Compute handles POST /v1/statements.  The body carries the invoice and
// the plays lookup table; nothing is read from or written to the store.
func (h *StatementHandler) Compute(c echo.Context) error {
	format, ok := responseFormat(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "format must be text or json"})
	}
	var req statementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Plays == nil {
		req.Plays = model.Plays{}
	}
	st, err := h.Builder.Build(req.Invoice, req.Plays)
	if err != nil {
		return writeError(c, err)
	}
	h.publish(c, req.Invoice.ID, st)
	return h.respond(c, format, req.Invoice.ID, st)
}

// ForInvoice handles GET /v1/invoices/:id/statement.  The invoice and the
// plays it references are loaded from MySQL.
func (h *StatementHandler) ForInvoice(c echo.Context) error {
	format, ok := responseFormat(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "format must be text or json"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice id"})
	}
	ctx := c.Request().Context()
	inv, err := h.InvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	ids := make([]string, 0, len(inv.Performances))
	for _, p := range inv.Performances {
		ids = append(ids, p.PlayID)
	}
	plays, err := h.PlayRepo.GetByIDs(ctx, ids)
	if err != nil {
		return writeError(c, err)
	}
	st, err := h.Builder.Build(*inv, plays)
	if err != nil {
		return writeError(c, err)
	}
	h.publish(c, inv.ID, st)
	return h.respond(c, format, inv.ID, st)
}

func (h *StatementHandler) respond(c echo.Context, format string, invoiceID uint64, st statement.Statement) error {
	loc := h.Builder.Locale()
	if format == "text" {
		return c.String(http.StatusOK, statement.Render(st, loc))
	}
	out := statementResponse{
		InvoiceID:          invoiceID,
		Customer:           st.Customer,
		Currency:           loc.Code,
		Lines:              make([]lineResponse, 0, len(st.Lines)),
		TotalAmount:        st.TotalAmount,
		TotalAmountDisplay: currency.Format(st.TotalAmount, loc),
		TotalCredits:       st.TotalCredits,
	}
	for _, l := range st.Lines {
		out.Lines = append(out.Lines, lineResponse{Line: l, AmountDisplay: currency.Format(l.Amount, loc)})
	}
	return c.JSON(http.StatusOK, out)
}

// publish sends the statement.issued event in the background.  Failures
// are logged by the publisher and never affect the response.
func (h *StatementHandler) publish(c echo.Context, invoiceID uint64, st statement.Statement) {
	if h.Events == nil {
		return
	}
	by, _ := c.Get(middleware.ContextUserID).(string)
	ev := queue.StatementIssuedEvent{
		InvoiceID:    invoiceID,
		Customer:     st.Customer,
		Performances: len(st.Lines),
		TotalAmount:  st.TotalAmount,
		TotalCredits: st.TotalCredits,
		Currency:     h.Builder.Locale().Code,
		IssuedBy:     by,
		IssuedAt:     h.now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Events.PublishStatementIssued(ctx, ev); err != nil {
			log.WithError(err).WithField("customer", ev.Customer).Debug("statement.issued not published")
		}
	}()
}

// responseFormat reads ?format=, defaulting to text.
func responseFormat(c echo.Context) (string, bool) {
	switch f := c.QueryParam("format"); f {
	case "", "text":
		return "text", true
	case "json":
		return "json", true
	default:
		return f, false
	}
}
