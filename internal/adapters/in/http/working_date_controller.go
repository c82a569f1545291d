package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/domain"
	"github.com/suchimauz/working-days-api/internal/core/ports/in"
)

const (
	errorInvalidParameters  = "InvalidParameters"
	errorServiceUnavailable = "ServiceUnavailable"

	utcResponseLayout = "2006-01-02T15:04:05Z"
)

type WorkingDateController struct {
	useCase in.WorkingDateUseCase
	cfg     *config.Config
}

func NewWorkingDateController(useCase in.WorkingDateUseCase, cfg *config.Config) *WorkingDateController {
	return &WorkingDateController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *WorkingDateController) RegisterRoutes(router *gin.Engine) {
	router.GET("/", c.root)
	router.GET("/api/working-date", c.getWorkingDate)
}

func (c *WorkingDateController) root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"name":      "WorkingDays API",
		"status":    "ok",
		"version":   c.cfg.App.Version,
		"endpoints": []string{"/api/working-date"},
	})
}

func (c *WorkingDateController) getWorkingDate(ctx *gin.Context) {
	daysParam := ctx.Query("days")
	hoursParam := ctx.Query("hours")
	dateParam := ctx.Query("date")

	if daysParam == "" && hoursParam == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   errorInvalidParameters,
			"message": "Provide days and/or hours",
		})
		return
	}

	days, ok := parsePositiveInt(ctx, "days", daysParam)
	if !ok {
		return
	}

	hours, ok := parsePositiveInt(ctx, "hours", hoursParam)
	if !ok {
		return
	}

	if dateParam != "" && !strings.HasSuffix(dateParam, "Z") && !strings.HasSuffix(dateParam, "z") {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   errorInvalidParameters,
			"message": "date must be UTC ISO8601 ending with Z",
		})
		return
	}

	result, err := c.useCase.ComputeWorkingDate(ctx.Request.Context(), domain.WorkingDateQuery{
		StartISO: dateParam,
		Days:     days,
		Hours:    hours,
	})
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"date": result.UTC().Format(utcResponseLayout),
	})
}

func (c *WorkingDateController) renderError(ctx *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.ErrorKindInvalidInput:
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   errorInvalidParameters,
			"message": err.Error(),
		})
	case domain.ErrorKindSourceUnavailable:
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   errorServiceUnavailable,
			"message": "Holidays source unavailable",
		})
	default:
		// Original cause stays in the logs, never in the response
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   errorServiceUnavailable,
			"message": "Unexpected error",
		})
	}
}

// parsePositiveInt parses an optional query parameter that, when present,
// must be a positive integer. On failure it writes the error response and
// returns ok = false.
func parsePositiveInt(ctx *gin.Context, name, value string) (int, bool) {
	if value == "" {
		return 0, true
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   errorInvalidParameters,
			"message": name + " must be a positive integer",
		})
		return 0, false
	}

	return parsed, true
}
