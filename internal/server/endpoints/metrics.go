package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/metrics"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// MetricsResponse contains a list of recorded pipeline metrics.
type MetricsResponse struct {
	Metrics []metrics.Metric `json:"metrics"`
	Total   int              `json:"total"`
}

// MetricsSummaryResponse aggregates metrics overall and per stage.
type MetricsSummaryResponse struct {
	Summary          *metrics.Summary            `json:"summary"`
	Stages           map[string]*metrics.Summary `json:"stages"`
	TokensByProvider map[string]int              `json:"tokens_by_provider"`
}

// parseMetricsFilter builds a metrics filter from list query parameters.
func parseMetricsFilter(q url.Values) (metrics.Filter, error) {
	f := metrics.Filter{
		SessionID: q.Get("session_id"),
		Stage:     q.Get("stage"),
		Provider:  q.Get("provider"),
	}
	if v := q.Get("success"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid success filter: %q must be true or false", v)
		}
		f.Success = &b
	}
	return f, nil
}

// metricsQueryFlags holds the shared CLI filter flags for metrics commands.
type metricsQueryFlags struct {
	sessionID string
	stage     string
	provider  string
}

func (f *metricsQueryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sessionID, "session-id", "", "Filter by session ID")
	cmd.Flags().StringVar(&f.stage, "stage", "", "Filter by stage (extract, validate, generate, portal_check)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Filter by provider")
}

func (f *metricsQueryFlags) encode() url.Values {
	params := url.Values{}
	if f.sessionID != "" {
		params.Set("session_id", f.sessionID)
	}
	if f.stage != "" {
		params.Set("stage", f.stage)
	}
	if f.provider != "" {
		params.Set("provider", f.provider)
	}
	return params
}

func metricsPath(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// ListMetricsEndpoint handles GET /api/metrics.
type ListMetricsEndpoint struct{}

func (e *ListMetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

func (e *ListMetricsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List pipeline metrics
//	@Description	Get recorded per-operation metrics with optional filters, newest first
//	@Tags			metrics
//	@Produce		json
//	@Param			session_id	query		string	false	"Filter by session ID"
//	@Param			stage		query		string	false	"Filter by stage (extract, validate, generate, portal_check)"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			success		query		bool	false	"Filter by success status (true or false)"
//	@Param			limit		query		int		false	"Max results (default 100)"
//	@Success		200			{object}	MetricsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *ListMetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.MetricsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "metrics store not available")
		return
	}

	q := r.URL.Query()
	filter, err := parseMetricsFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 100
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %q must be an integer", v))
			return
		}
		if n > 0 {
			limit = n
		}
	}

	list := store.List(filter, limit)
	writeJSON(w, http.StatusOK, MetricsResponse{Metrics: list, Total: len(list)})
}

func (e *ListMetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var flags metricsQueryFlags
	var limit int
	var successOnly, failedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipeline metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := flags.encode()
			if successOnly {
				params.Set("success", "true")
			}
			if failedOnly {
				params.Set("success", "false")
			}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}

			client := api.NewClient(getServerURL())
			var resp MetricsResponse
			if err := client.Get(cmd.Context(), metricsPath("/api/metrics", params), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&successOnly, "success", false, "Only show successful operations")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show failed operations")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	return cmd
}

// MetricsSummaryEndpoint handles GET /api/metrics/summary.
type MetricsSummaryEndpoint struct{}

func (e *MetricsSummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/summary", e.handler
}

func (e *MetricsSummaryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Summarize pipeline metrics
//	@Description	Aggregate counts, tokens, and timing overall, per stage, and per provider
//	@Tags			metrics
//	@Produce		json
//	@Param			session_id	query		string	false	"Filter by session ID"
//	@Param			stage		query		string	false	"Filter by stage"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Success		200			{object}	MetricsSummaryResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/api/metrics/summary [get]
func (e *MetricsSummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.MetricsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "metrics store not available")
		return
	}

	filter, err := parseMetricsFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MetricsSummaryResponse{
		Summary:          store.GetSummary(filter),
		Stages:           store.StageBreakdown(filter),
		TokensByProvider: store.TokensByProvider(filter),
	})
}

func (e *MetricsSummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var flags metricsQueryFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize pipeline metrics by stage and provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp MetricsSummaryResponse
			if err := client.Get(cmd.Context(), metricsPath("/api/metrics/summary", flags.encode()), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	flags.register(cmd)
	return cmd
}

// MetricsDetailedEndpoint handles GET /api/metrics/detailed.
type MetricsDetailedEndpoint struct{}

func (e *MetricsDetailedEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/detailed", e.handler
}

func (e *MetricsDetailedEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Detailed metric statistics
//	@Description	Latency percentiles and token breakdowns for the matching operations
//	@Tags			metrics
//	@Produce		json
//	@Param			session_id	query		string	false	"Filter by session ID"
//	@Param			stage		query		string	false	"Filter by stage"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Success		200			{object}	metrics.DetailedStats
//	@Failure		400			{object}	ErrorResponse
//	@Router			/api/metrics/detailed [get]
func (e *MetricsDetailedEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.MetricsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "metrics store not available")
		return
	}

	filter, err := parseMetricsFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, store.GetDetailedStats(filter))
}

func (e *MetricsDetailedEndpoint) Command(getServerURL func() string) *cobra.Command {
	var flags metricsQueryFlags

	cmd := &cobra.Command{
		Use:   "detailed",
		Short: "Show latency percentiles and token breakdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp metrics.DetailedStats
			if err := client.Get(cmd.Context(), metricsPath("/api/metrics/detailed", flags.encode()), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	flags.register(cmd)
	return cmd
}
