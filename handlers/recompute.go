package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/apdarank/standings"
)

// Recompute rebuilds a full season's standings, qualifications and
// rankings and returns the cleanup report. Defaults to the current
// season when no season param is given.
func (h *Handler) Recompute(c echo.Context) error {
	report, err := h.engine.RecomputeSeason(c.Request().Context(), c.QueryParam("season"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

// RecomputeTournament refreshes only the entities one tournament touched.
func (h *Handler) RecomputeTournament(c echo.Context) error {
	id, err := strconv.Atoi(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing or invalid id param")
	}

	report, err := h.engine.RecomputeTournament(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, standings.ErrTournamentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}
