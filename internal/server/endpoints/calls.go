package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/calls"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// CallsResponse contains a list of recorded model calls.
type CallsResponse struct {
	Calls []calls.Call `json:"calls"`
	Total int          `json:"total"`
}

// CallResponse contains a single recorded model call.
type CallResponse struct {
	Call *calls.Call `json:"call,omitempty"`
}

// ListCallsEndpoint handles GET /api/calls.
type ListCallsEndpoint struct{}

func (e *ListCallsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/calls", e.handler
}

func (e *ListCallsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List model calls
//	@Description	Get the in-memory model call log with optional filters, newest first
//	@Tags			calls
//	@Produce		json
//	@Param			session_id	query		string	false	"Filter by session ID"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			prompt_key	query		string	false	"Filter by prompt key"
//	@Param			success		query		bool	false	"Filter by success status (true or false)"
//	@Param			limit		query		int		false	"Max results (default 100)"
//	@Success		200			{object}	CallsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/api/calls [get]
func (e *ListCallsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	log := svcctx.CallsFrom(r.Context())
	if log == nil {
		writeError(w, http.StatusInternalServerError, "call log not available")
		return
	}

	q := r.URL.Query()
	sessionID := q.Get("session_id")
	provider := q.Get("provider")
	promptKey := q.Get("prompt_key")

	var success *bool
	if v := q.Get("success"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid success filter: %q must be true or false", v))
			return
		}
		success = &b
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

	var out []calls.Call
	for _, c := range log.List() {
		if sessionID != "" && c.SessionID != sessionID {
			continue
		}
		if provider != "" && c.Provider != provider {
			continue
		}
		if promptKey != "" && c.PromptKey != promptKey {
			continue
		}
		if success != nil && c.Success != *success {
			continue
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}

	writeJSON(w, http.StatusOK, CallsResponse{Calls: out, Total: len(out)})
}

func (e *ListCallsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var sessionID, provider, promptKey string
	var limit int
	var successOnly, failedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded model calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if sessionID != "" {
				params.Set("session_id", sessionID)
			}
			if provider != "" {
				params.Set("provider", provider)
			}
			if promptKey != "" {
				params.Set("prompt_key", promptKey)
			}
			if successOnly {
				params.Set("success", "true")
			}
			if failedOnly {
				params.Set("success", "false")
			}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}

			path := "/api/calls"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			client := api.NewClient(getServerURL())
			var resp CallsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "Filter by session ID")
	cmd.Flags().StringVar(&provider, "provider", "", "Filter by provider")
	cmd.Flags().StringVar(&promptKey, "prompt-key", "", "Filter by prompt key")
	cmd.Flags().BoolVar(&successOnly, "success", false, "Only show successful calls")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show failed calls")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	return cmd
}

// GetCallEndpoint handles GET /api/calls/{id}.
type GetCallEndpoint struct{}

func (e *GetCallEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/calls/{id}", e.handler
}

func (e *GetCallEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a model call
//	@Description	Get a single recorded model call by ID
//	@Tags			calls
//	@Produce		json
//	@Param			id	path		string	true	"Call ID"
//	@Success		200	{object}	CallResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/calls/{id} [get]
func (e *GetCallEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	log := svcctx.CallsFrom(r.Context())
	if log == nil {
		writeError(w, http.StatusInternalServerError, "call log not available")
		return
	}

	call, ok := log.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "call not found")
		return
	}

	writeJSON(w, http.StatusOK, CallResponse{Call: call})
}

func (e *GetCallEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a recorded model call by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CallResponse
			if err := client.Get(cmd.Context(), "/api/calls/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp.Call)
		},
	}
}
