package insights

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/klokku/spendpace/internal/rest"
	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BucketDTO struct {
	Date    time.Time       `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Elapsed bool            `json:"elapsed"`
}

type SummaryDTO struct {
	Period             string          `json:"period"`
	Filter             string          `json:"filter"`
	Start              time.Time       `json:"start"`
	End                time.Time       `json:"end"`
	EffectiveEnd       time.Time       `json:"effectiveEnd"`
	Buckets            []BucketDTO     `json:"buckets"`
	Total              decimal.Decimal `json:"total"`
	Max                decimal.Decimal `json:"max"`
	AxisMax            decimal.Decimal `json:"axisMax"`
	Average            decimal.Decimal `json:"average"`
	AverageMeaningful  bool            `json:"averageMeaningful"`
	ElapsedBucketCount int             `json:"elapsedBucketCount"`
}

type ShareDTO struct {
	CategoryId *int            `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Percent    float64         `json:"percent"`
}

type BreakdownDTO struct {
	Period string          `json:"period"`
	Filter string          `json:"filter"`
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Total  decimal.Decimal `json:"total"`
	Shares []ShareDTO      `json:"shares"`
	// Visible lists the shares large enough to be drawn as a slice.
	Visible []ShareDTO `json:"visible"`
}

type NavigationDTO struct {
	Period              string     `json:"period"`
	Start               time.Time  `json:"start"`
	End                 time.Time  `json:"end"`
	Week                string     `json:"week,omitempty"`
	CurrentPeriodStart  time.Time  `json:"currentPeriodStart"`
	EarliestPeriodStart time.Time  `json:"earliestPeriodStart"`
	CanStepForward      bool       `json:"canStepForward"`
	CanStepBackward     bool       `json:"canStepBackward"`
	Previous            *time.Time `json:"previous,omitempty"`
	Next                *time.Time `json:"next,omitempty"`
}

type Handler struct {
	service  Service
	renderer SummaryRenderer
}

func NewHandler(service Service, renderer SummaryRenderer) *Handler {
	return &Handler{service, renderer}
}

// GetSummary godoc
// @Summary Bucketed totals of a period
// @Tags Insights
// @Produce json,text/csv
// @Param period query string false "day, week, month or year (default month)"
// @Param date query string false "Anchor date (RFC3339), defaults to now"
// @Param filter query string false "expense, income or all (default expense)"
// @Success 200 {object} SummaryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid query"
// @Router /api/insights [get]
// @Security XUserId
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	query, ok := parseQuery(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), query.periodType, query.anchor, query.filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/csv") {
		content, err := h.renderer.RenderSummary(summary)
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Failed to render CSV", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=insights-"+summary.Window.Start.Format(time.DateOnly)+".csv")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(content)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, SummaryToDTO(summary))
}

// GetBreakdown godoc
// @Summary Category shares of a period
// @Tags Insights
// @Produce json
// @Param period query string false "day, week, month or year (default month)"
// @Param date query string false "Anchor date (RFC3339), defaults to now"
// @Param filter query string false "expense, income or all (default expense)"
// @Success 200 {object} BreakdownDTO
// @Router /api/insights/breakdown [get]
// @Security XUserId
func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	query, ok := parseQuery(w, r)
	if !ok {
		return
	}
	breakdown, err := h.service.Breakdown(r.Context(), query.periodType, query.anchor, query.filter)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BreakdownToDTO(breakdown))
}

// GetNavigation godoc
// @Summary Period cursor with its stepping bounds
// @Tags Insights
// @Produce json
// @Param period query string false "day, week, month or year (default month)"
// @Param date query string false "Date inside the wanted period (RFC3339), defaults to now"
// @Success 200 {object} NavigationDTO
// @Router /api/insights/navigation [get]
// @Security XUserId
func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	query, ok := parseQuery(w, r)
	if !ok {
		return
	}
	navigation, err := h.service.Navigation(r.Context(), query.periodType, query.anchor)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, NavigationToDTO(navigation))
}

type insightsQuery struct {
	periodType period.Type
	anchor     *time.Time
	filter     transaction.Filter
}

func parseQuery(w http.ResponseWriter, r *http.Request) (insightsQuery, bool) {
	values := r.URL.Query()
	query := insightsQuery{periodType: period.Month}

	if value := values.Get("period"); value != "" {
		periodType, err := period.ParseType(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid period", err.Error())
			return insightsQuery{}, false
		}
		query.periodType = periodType
	}
	if value := values.Get("date"); value != "" {
		anchor, err := time.Parse(time.RFC3339, value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in RFC3339 format")
			return insightsQuery{}, false
		}
		query.anchor = &anchor
	}
	filter, err := transaction.ParseFilter(values.Get("filter"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return insightsQuery{}, false
	}
	query.filter = filter
	return query, true
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, user.ErrNoUser) {
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
		return
	}
	log.Errorf("insights request failed: %v", err)
	rest.WriteError(w, http.StatusInternalServerError, "Internal server error", err.Error())
}

func SummaryToDTO(summary PeriodSummary) SummaryDTO {
	buckets := make([]BucketDTO, 0, len(summary.Buckets))
	for _, bucket := range summary.Buckets {
		buckets = append(buckets, BucketDTO{Date: bucket.Date, Amount: bucket.Amount, Elapsed: bucket.Elapsed})
	}
	return SummaryDTO{
		Period:             string(summary.Window.Type),
		Filter:             string(summary.Filter),
		Start:              summary.Window.Start,
		End:                summary.Window.End,
		EffectiveEnd:       summary.EffectiveEnd,
		Buckets:            buckets,
		Total:              summary.Total,
		Max:                summary.Max,
		AxisMax:            summary.AxisMax(),
		Average:            summary.Average,
		AverageMeaningful:  summary.AverageMeaningful(),
		ElapsedBucketCount: summary.ElapsedBucketCount,
	}
}

func BreakdownToDTO(breakdown BreakdownResult) BreakdownDTO {
	return BreakdownDTO{
		Period:  string(breakdown.Window.Type),
		Filter:  string(breakdown.Filter),
		Start:   breakdown.Window.Start,
		End:     breakdown.Window.End,
		Total:   breakdown.Total,
		Shares:  sharesToDTO(breakdown.Shares),
		Visible: sharesToDTO(VisibleShares(breakdown.Shares, VisibilityThreshold)),
	}
}

func sharesToDTO(shares []CategoryShare) []ShareDTO {
	result := make([]ShareDTO, 0, len(shares))
	for _, s := range shares {
		result = append(result, ShareDTO{CategoryId: s.CategoryId, Amount: s.Amount, Percent: s.Percent})
	}
	return result
}

func NavigationToDTO(navigation Navigation) NavigationDTO {
	dto := NavigationDTO{
		Period:              string(navigation.Window.Type),
		Start:               navigation.Window.Start,
		End:                 navigation.Window.End,
		CurrentPeriodStart:  navigation.CurrentPeriodStart,
		EarliestPeriodStart: navigation.EarliestPeriodStart,
		CanStepForward:      navigation.CanStepForward,
		CanStepBackward:     navigation.CanStepBackward,
		Previous:            navigation.Previous,
		Next:                navigation.Next,
	}
	if navigation.Week != nil {
		dto.Week = navigation.Week.String()
	}
	return dto
}
