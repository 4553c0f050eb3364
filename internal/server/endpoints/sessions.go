package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/session"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// CreateSessionResponse is the response for creating a review session.
type CreateSessionResponse struct {
	ID string `json:"id"`
}

// SessionsListResponse contains all live review sessions.
type SessionsListResponse struct {
	Sessions []session.Snapshot `json:"sessions"`
	Total    int                `json:"total"`
}

// sessionError maps session state machine errors onto HTTP statuses.
func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNotExtracted),
		errors.Is(err, session.ErrNotValidated),
		errors.Is(err, session.ErrBlocked):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// CreateSessionEndpoint handles POST /api/sessions.
type CreateSessionEndpoint struct{}

func (e *CreateSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions", e.handler
}

func (e *CreateSessionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create a review session
//	@Description	Create a new empty review session
//	@Tags			sessions
//	@Produce		json
//	@Success		201	{object}	CreateSessionResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/sessions [post]
func (e *CreateSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sessions := svcctx.SessionsFrom(r.Context())
	if sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "session manager not initialized")
		return
	}

	sess := sessions.Create()
	writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: sess.ID()})
}

func (e *CreateSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new review session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp CreateSessionResponse
			if err := client.Post(ctx, "/api/sessions", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ListSessionsEndpoint handles GET /api/sessions.
type ListSessionsEndpoint struct{}

func (e *ListSessionsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions", e.handler
}

func (e *ListSessionsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List review sessions
//	@Description	Get all live review sessions, newest first
//	@Tags			sessions
//	@Produce		json
//	@Success		200	{object}	SessionsListResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/sessions [get]
func (e *ListSessionsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sessions := svcctx.SessionsFrom(r.Context())
	if sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "session manager not initialized")
		return
	}

	snaps := sessions.List()
	writeJSON(w, http.StatusOK, SessionsListResponse{
		Sessions: snaps,
		Total:    len(snaps),
	})
}

func (e *ListSessionsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List review sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp SessionsListResponse
			if err := client.Get(ctx, "/api/sessions", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetSessionEndpoint handles GET /api/sessions/{id}.
type GetSessionEndpoint struct{}

func (e *GetSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}", e.handler
}

func (e *GetSessionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a review session
//	@Description	Get a session's working record, verdict, and script
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	session.Snapshot
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/sessions/{id} [get]
func (e *GetSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (e *GetSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a review session by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var snap session.Snapshot
			if err := client.Get(ctx, "/api/sessions/"+args[0], &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}

// DeleteSessionEndpoint handles DELETE /api/sessions/{id}.
type DeleteSessionEndpoint struct{}

func (e *DeleteSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/sessions/{id}", e.handler
}

func (e *DeleteSessionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete a review session
//	@Description	Discard a session and its working state
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path	string	true	"Session ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/sessions/{id} [delete]
func (e *DeleteSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	if err := sessions.Delete(id); err != nil {
		sessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a review session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			if err := client.Delete(ctx, "/api/sessions/"+args[0]); err != nil {
				return err
			}
			cmd.Println("deleted", args[0])
			return nil
		},
	}
}
