package endpoints

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/metrics"
	"github.com/jackzampolin/maestro/internal/portal"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// PortalCheckRequest names the page to probe. Exactly one of URL or HTML
// must be set; HTML covers saved copies of pages behind a login.
type PortalCheckRequest struct {
	URL  string `json:"url,omitempty"`
	HTML string `json:"html,omitempty"`
}

// PortalCheckResponse reports which scripted form controls the page has.
type PortalCheckResponse struct {
	URL      string                 `json:"url,omitempty"`
	Controls []portal.ControlStatus `json:"controls"`
	Missing  int                    `json:"missing"`
	OK       bool                   `json:"ok"`
}

// PortalCheckEndpoint handles POST /api/portal/check.
type PortalCheckEndpoint struct{}

func (e *PortalCheckEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/portal/check", e.handler
}

func (e *PortalCheckEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Check the portal form
//	@Description	Probe a portal page for every control the fill script targets, reporting selector drift
//	@Tags			portal
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PortalCheckRequest	true	"Page URL or saved HTML"
//	@Success		200		{object}	PortalCheckResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/portal/check [post]
func (e *PortalCheckEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req PortalCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if (req.URL == "") == (req.HTML == "") {
		writeError(w, http.StatusBadRequest, "exactly one of url or html is required")
		return
	}

	start := time.Now()
	page := []byte(req.HTML)
	if req.URL != "" {
		var err error
		page, err = portal.Fetch(r.Context(), nil, req.URL)
		if err != nil {
			recordPortalCheck(r, false, "fetch", start)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
	}

	statuses, err := portal.Check(page)
	if err != nil {
		recordPortalCheck(r, false, "parse", start)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	missing := portal.Missing(statuses)
	recordPortalCheck(r, len(missing) == 0, "", start)

	writeJSON(w, http.StatusOK, PortalCheckResponse{
		URL:      req.URL,
		Controls: statuses,
		Missing:  len(missing),
		OK:       len(missing) == 0,
	})
}

func recordPortalCheck(r *http.Request, ok bool, errorType string, start time.Time) {
	store := svcctx.MetricsFrom(r.Context())
	if store == nil {
		return
	}
	if !ok && errorType == "" {
		errorType = "missing_controls"
	}
	store.RecordStage(metrics.RecordOpts{Stage: metrics.StagePortalCheck}, ok, errorType, time.Since(start))
}

func (e *PortalCheckEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check [url]",
		Short: "Check the portal form for selector drift",
		Long: `Check that every control the fill script targets still exists on the
portal page. Pass a URL, or --file with a saved copy of the page for
portals behind a login.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := PortalCheckRequest{}
			if len(args) == 1 {
				req.URL = args[0]
			}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				req.HTML = string(data)
			}

			client := api.NewClient(getServerURL())
			var resp PortalCheckResponse
			if err := client.Post(cmd.Context(), "/api/portal/check", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Saved portal page HTML")
	return cmd
}
