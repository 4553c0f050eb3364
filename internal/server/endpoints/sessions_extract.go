package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/extract"
	"github.com/jackzampolin/maestro/internal/session"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// ExtractRequest is the request body for extraction.
type ExtractRequest struct {
	// Text is the free-form release description to extract from.
	Text string `json:"text"`

	// Provider overrides the configured default extraction provider.
	Provider string `json:"provider,omitempty"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`
}

// buildExtractor assembles an Extractor from the request's services, using
// the configured default provider unless the request names another one.
func buildExtractor(r *http.Request, providerName, model string) (*extract.Extractor, error) {
	svcs := svcctx.ServicesFrom(r.Context())
	if svcs == nil || svcs.Registry == nil {
		return nil, errors.New("provider registry not available")
	}

	if providerName == "" && svcs.ConfigManager != nil {
		providerName = svcs.ConfigManager.Get().Defaults.Provider
	}
	client, err := svcs.Registry.Get(providerName)
	if err != nil {
		return nil, err
	}

	return extract.New(extract.Config{
		Client:   client,
		Model:    model,
		Resolver: svcs.Prompts,
		Calls:    svcs.Calls,
		Metrics:  svcs.Metrics,
		Logger:   svcs.Logger,
	})
}

// extractError maps extraction failures onto HTTP statuses: bad input is
// the caller's fault, everything involving the provider is a bad gateway.
func extractError(w http.ResponseWriter, err error) {
	var upstream *extract.UpstreamError
	var malformed *extract.MalformedResponseError
	switch {
	case errors.Is(err, extract.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream), errors.As(err, &malformed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// SessionExtractEndpoint handles POST /api/sessions/{id}/extract.
type SessionExtractEndpoint struct{}

func (e *SessionExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/extract", e.handler
}

func (e *SessionExtractEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extract a release record
//	@Description	Run model extraction over free text and store the candidate record on the session
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			request	body		ExtractRequest	true	"Raw release text and optional provider/model overrides"
//	@Success		200		{object}	session.Snapshot
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/extract [post]
func (e *SessionExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sessions := svcctx.SessionsFrom(r.Context())
	if sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "session manager not initialized")
		return
	}
	sess, err := sessions.Get(id)
	if err != nil {
		sessionError(w, err)
		return
	}

	ex, err := buildExtractor(r, req.Provider, req.Model)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	rec, err := ex.Extract(r.Context(), req.Text, extract.Opts{SessionID: id})
	if err != nil {
		extractError(w, err)
		return
	}

	sess.SetExtracted(req.Text, rec, ex.Provider())
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (e *SessionExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var provider, model, file string

	cmd := &cobra.Command{
		Use:   "extract <id> [text...]",
		Short: "Extract a release record from free text",
		Long: `Extract a structured release record from free text into a session.

Text is taken from the arguments, or from --file (use "-" for stdin).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			text := strings.Join(args[1:], " ")
			if file != "" {
				data, err := readInput(file)
				if err != nil {
					return err
				}
				text = string(data)
			}

			client := api.NewClient(getServerURL())
			var snap session.Snapshot
			err := client.Post(ctx, "/api/sessions/"+args[0]+"/extract", ExtractRequest{
				Text:     text,
				Provider: provider,
				Model:    model,
			}, &snap)
			if err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "Extraction provider (default from server config)")
	cmd.Flags().StringVar(&model, "model", "", "Model override")
	cmd.Flags().StringVarP(&file, "file", "f", "", `Read release text from file ("-" for stdin)`)
	return cmd
}

// readInput reads a file argument, treating "-" as stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
