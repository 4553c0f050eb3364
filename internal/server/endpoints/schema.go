package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/portal"
	"github.com/jackzampolin/maestro/internal/release"
	"github.com/jackzampolin/maestro/internal/schema"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// SchemaResponse describes the release fields and the portal contract the
// fill script is written against.
type SchemaResponse struct {
	Fields         []schema.Field `json:"fields"`
	ReleaseTypes   []string       `json:"release_types"`
	DefaultLabel   string         `json:"default_label"`
	LatinAudience  string         `json:"latin_audience"`
	PortalURL      string         `json:"portal_url"`
	SubmitSelector string         `json:"submit_selector"`
}

// SchemaEndpoint handles GET /api/schema.
type SchemaEndpoint struct{}

func (e *SchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schema", e.handler
}

// The field table is compiled in, so no services are needed.
func (e *SchemaEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Describe the release schema
//	@Description	List the release fields, their portal selectors, and the canonical release types
//	@Tags			schema
//	@Produce		json
//	@Success		200	{object}	SchemaResponse
//	@Router			/api/schema [get]
func (e *SchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := SchemaResponse{
		Fields: schema.Fields(),
		ReleaseTypes: []string{
			string(release.TypeNewSingle),
			string(release.TypeNewAlbum),
			string(release.TypeNewEP),
		},
		DefaultLabel:   release.DefaultLabel,
		LatinAudience:  release.LatinAudience,
		PortalURL:      portal.FormURL,
		SubmitSelector: portal.SubmitSelector,
	}

	// The configured portal URL wins over the compiled-in default.
	if svcs := svcctx.ServicesFrom(r.Context()); svcs != nil && svcs.Generator != nil && svcs.Generator.PortalURL != "" {
		resp.PortalURL = svcs.Generator.PortalURL
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *SchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the release field schema and portal selector contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SchemaResponse
			if err := client.Get(cmd.Context(), "/api/schema", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
