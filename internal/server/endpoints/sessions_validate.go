package endpoints

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/metrics"
	"github.com/jackzampolin/maestro/internal/session"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// SessionValidateEndpoint handles POST /api/sessions/{id}/validate.
type SessionValidateEndpoint struct{}

func (e *SessionValidateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/validate", e.handler
}

func (e *SessionValidateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Validate the working record
//	@Description	Run the deterministic rules over the extracted record and store the verdict
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	session.Snapshot
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/validate [post]
func (e *SessionValidateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
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

	start := time.Now()
	verdict, err := sess.Validate()
	if err != nil {
		sessionError(w, err)
		return
	}

	if store := svcctx.MetricsFrom(r.Context()); store != nil {
		errorType := ""
		if verdict.Blocking {
			errorType = "blocking_errors"
		}
		store.RecordStage(metrics.RecordOpts{
			SessionID: id,
			Stage:     metrics.StageValidate,
		}, !verdict.Blocking, errorType, time.Since(start))
	}

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (e *SessionValidateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <id>",
		Short: "Validate a session's working record",
		Long: `Run the deterministic release rules over the session's working record.

The verdict lists blocking errors (such as a malformed ISRC) and advisories,
and the normalized record becomes the new working record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var snap session.Snapshot
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/validate", nil, &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}
