package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/session"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// EditRequest is the request body for correcting extracted fields.
type EditRequest struct {
	// Fields maps schema field names to replacement values. An empty
	// value clears the field.
	Fields map[string]string `json:"fields"`
}

// SessionEditEndpoint handles POST /api/sessions/{id}/edit.
type SessionEditEndpoint struct{}

func (e *SessionEditEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/edit", e.handler
}

func (e *SessionEditEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Edit extracted fields
//	@Description	Overwrite fields on the working record, returning the session to the extracted state
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			request	body		EditRequest	true	"Field corrections"
//	@Success		200		{object}	session.Snapshot
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/edit [post]
func (e *SessionEditEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "fields map is required")
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

	// Apply in sorted order so a bad field fails the same way every time.
	names := make([]string, 0, len(req.Fields))
	for name := range req.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := sess.ApplyEdit(name, req.Fields[name]); err != nil {
			sessionError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (e *SessionEditEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <field>=<value> [<field>=<value>...]",
		Short: "Correct fields on an extracted record",
		Long: `Correct fields on a session's working record before re-validating.

Each argument is a field=value pair, for example:

  maestro api sessions edit a1b2 title="Noche Estrellada" isrc=USRC17607839`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make(map[string]string, len(args)-1)
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid edit %q: expected field=value", arg)
				}
				fields[name] = value
			}

			client := api.NewClient(getServerURL())
			var snap session.Snapshot
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/edit", EditRequest{Fields: fields}, &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}
