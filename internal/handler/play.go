package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-statement/internal/model"
	"github.com/iliyamo/theater-statement/internal/repository"
)

// PlayHandler serves the play catalogue.
type PlayHandler struct {
	PlayRepo *repository.PlayRepo
	// Invalidate, when set, runs after a play changes so cached copies of
	// the catalogue are dropped.
	Invalidate func(ctx context.Context) error
}

// NewPlayHandler returns a PlayHandler backed by repo.
func NewPlayHandler(repo *repository.PlayRepo) *PlayHandler {
	if repo == nil {
		panic("nil repository passed to NewPlayHandler")
	}
	return &PlayHandler{PlayRepo: repo}
}

// List handles GET /v1/plays and returns the catalogue as a lookup
// table keyed by play id, the same shape POST /v1/statements accepts.
func (h *PlayHandler) List(c echo.Context) error {
	plays, err := h.PlayRepo.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"plays": plays})
}

// Put handles PUT /v1/plays/:id, creating or replacing one play.
func (h *PlayHandler) Put(c echo.Context) error {
	var p model.Play
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id := c.Param("id")
	ctx := c.Request().Context()
	if err := h.PlayRepo.Upsert(ctx, id, p); err != nil {
		return writeError(c, err)
	}
	if h.Invalidate != nil {
		if err := h.Invalidate(ctx); err != nil {
			log.WithError(err).WithField("play", id).Warn("play catalogue cache not invalidated")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "name": p.Name, "type": p.Type})
}
