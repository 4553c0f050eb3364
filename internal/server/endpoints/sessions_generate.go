package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/metrics"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// GenerateRequest is the request body for script generation.
type GenerateRequest struct {
	// Save writes the script under the home scripts directory in
	// addition to returning it.
	Save bool `json:"save,omitempty"`
}

// GenerateResponse carries the rendered console script.
type GenerateResponse struct {
	SessionID string `json:"session_id"`
	Script    string `json:"script"`
	SavedTo   string `json:"saved_to,omitempty"`
}

// SessionGenerateEndpoint handles POST /api/sessions/{id}/generate.
type SessionGenerateEndpoint struct{}

func (e *SessionGenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/generate", e.handler
}

func (e *SessionGenerateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate the console script
//	@Description	Render the validated record into a browser-console script that fills the portal form
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			request	body		GenerateRequest	false	"Generation options"
//	@Success		200		{object}	GenerateResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/generate [post]
func (e *SessionGenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req GenerateRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	svcs := svcctx.ServicesFrom(r.Context())
	if svcs == nil || svcs.Sessions == nil || svcs.Generator == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}
	sess, err := svcs.Sessions.Get(id)
	if err != nil {
		sessionError(w, err)
		return
	}

	start := time.Now()
	out, err := sess.Generate(svcs.Generator)
	if svcs.Metrics != nil {
		errorType := ""
		if err != nil {
			errorType = "state"
		}
		svcs.Metrics.RecordStage(metrics.RecordOpts{
			SessionID: id,
			Stage:     metrics.StageGenerate,
		}, err == nil, errorType, time.Since(start))
	}
	if err != nil {
		sessionError(w, err)
		return
	}

	resp := GenerateResponse{SessionID: id, Script: out}
	if req.Save && svcs.Home != nil {
		path, err := svcs.Home.SaveScript(id, out)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save script: "+err.Error())
			return
		}
		resp.SavedTo = path
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *SessionGenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var save bool
	var out string

	cmd := &cobra.Command{
		Use:   "generate <id>",
		Short: "Generate the portal console script",
		Long: `Generate the browser-console script for a validated session.

The script is printed raw so it can be piped or pasted straight into the
portal's developer console. Use --out to write it to a file instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/generate", GenerateRequest{Save: save}, &resp)
			if err != nil {
				return err
			}

			if out != "" {
				if err := os.WriteFile(out, []byte(resp.Script), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "script written to %s\n", out)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Script)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Also save the script under the server's home scripts directory")
	cmd.Flags().StringVar(&out, "out", "", "Write the script to a local file")
	return cmd
}
