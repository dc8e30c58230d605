package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

const (
	queryDateLayout  = "2006-01-02"
	defaultRangeDays = 30
)

var errInvalidQueryDate = errors.New("invalid date")

// AnalyticsHandler serves the admin dashboard reports. Query dates are local calendar days.
type AnalyticsHandler struct {
	usecase usecase.IAnalyticsUseCase
	loc     *time.Location
	now     func() time.Time
}

func NewAnalyticsHandler(uc usecase.IAnalyticsUseCase, loc *time.Location) *AnalyticsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsHandler{usecase: uc, loc: loc, now: time.Now}
}

// Revenue returns the revenue series for a date range.
// @Summary      Revenue report
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        from      query  string  false  "First day (YYYY-MM-DD), defaults to 30 days ago"
// @Param        to        query  string  false  "Last day (YYYY-MM-DD), defaults to today"
// @Param        group_by  query  string  false  "day, week or month"
// @Param        compare   query  bool    false  "Compare with the previous period"
// @Success      200  {object}  pkg.SuccessEnvelope{data=entities.RevenueReport}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      403  {object}  pkg.HTTPError
// @Router       /admin/analytics/revenue [get]
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	from, to, err := h.dateRange(c)
	if err != nil {
		respondError(c, pkg.NewValidationError("INVALID_DATE", "dates must be formatted YYYY-MM-DD"))
		return
	}
	compare, _ := strconv.ParseBool(c.DefaultQuery("compare", "false"))
	groupBy := entities.GroupBy(strings.ToLower(strings.TrimSpace(c.Query("group_by"))))

	report, err := h.usecase.RevenueReport(c.Request.Context(), actor, from, to, groupBy, compare)
	if err != nil {
		respondError(c, mapAnalyticsError(err))
		return
	}
	respondOK(c, report)
}

// PaymentMethods returns completed payment volume per method.
// @Summary      Payment method breakdown
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        from  query  string  false  "First day (YYYY-MM-DD)"
// @Param        to    query  string  false  "Last day (YYYY-MM-DD)"
// @Success      200  {object}  pkg.SuccessEnvelope{data=entities.PaymentMethodBreakdown}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      403  {object}  pkg.HTTPError
// @Router       /admin/analytics/payment-methods [get]
func (h *AnalyticsHandler) PaymentMethods(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	from, to, err := h.dateRange(c)
	if err != nil {
		respondError(c, pkg.NewValidationError("INVALID_DATE", "dates must be formatted YYYY-MM-DD"))
		return
	}

	breakdown, err := h.usecase.PaymentMethodBreakdown(c.Request.Context(), actor, from, to)
	if err != nil {
		respondError(c, mapAnalyticsError(err))
		return
	}
	respondOK(c, breakdown)
}

// UrgentOrders lists open orders that need attention first.
// @Summary      Urgent orders
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        limit  query  int  false  "Max orders (default 20, max 100)"
// @Success      200  {object}  pkg.SuccessEnvelope{data=[]entities.UrgentOrder}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      403  {object}  pkg.HTTPError
// @Router       /admin/orders/urgent [get]
func (h *AnalyticsHandler) UrgentOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, pkg.NewValidationError("INVALID_LIMIT", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	orders, err := h.usecase.UrgentOrders(c.Request.Context(), actor, limit)
	if err != nil {
		respondError(c, mapAnalyticsError(err))
		return
	}
	respondOK(c, orders)
}

// dateRange resolves from/to to the first and last instant of the local days.
func (h *AnalyticsHandler) dateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := h.now().In(h.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)

	toDay := today
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		d, err := time.ParseInLocation(queryDateLayout, raw, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidQueryDate
		}
		toDay = d
	}
	from := toDay.AddDate(0, 0, -defaultRangeDays+1)
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		d, err := time.ParseInLocation(queryDateLayout, raw, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidQueryDate
		}
		from = d
	}
	return from, toDay.AddDate(0, 0, 1).Add(-time.Millisecond), nil
}

func mapAnalyticsError(err error) *pkg.AppError {
	if appErr, ok := mapAccessError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidDateRange):
		return pkg.NewValidationError("INVALID_DATE_RANGE", "from must not be after to")
	case errors.Is(err, usecase.ErrDateRangeTooLong):
		return pkg.NewValidationError("DATE_RANGE_TOO_LONG", "date range must not exceed 366 days")
	case errors.Is(err, usecase.ErrInvalidGroupBy):
		return pkg.NewValidationError("INVALID_GROUP_BY", "group_by must be one of day, week, month")
	default:
		return internalError(err)
	}
}
