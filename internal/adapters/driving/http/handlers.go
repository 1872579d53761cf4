package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Verifies database and queue connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "queue unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      Admin login
// @Description  Authenticate with the admin credentials to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      driving.LoginRequest  true  "Login credentials"
// @Success      200      {object}  driving.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req driving.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "username and password are required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Search endpoint

type searchRequest struct {
	Query string            `json:"query"`
	Mode  domain.SearchMode `json:"mode,omitempty"`
	Limit int               `json:"limit,omitempty"`
}

// handleSearch godoc
// @Summary      Search paragraphs
// @Description  Rank transcript paragraphs against the query, lexically or by embedding distance, grouped by clip. An empty query is not an error.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      searchRequest  true  "Search query"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  ErrorResponse  "Unknown search mode"
// @Failure      503      {object}  ErrorResponse  "Embedding service not configured"
// @Router       /search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := domain.SearchOptions{
		Mode:  req.Mode,
		Limit: req.Limit,
	}

	result, err := s.searchService.Search(r.Context(), req.Query, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "unknown search mode")
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "vector search is not configured")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Clip endpoints

// handleListClips godoc
// @Summary      List clips
// @Description  List clips newest first, optionally filtered to one channel
// @Tags         Clips
// @Produce      json
// @Param        channel  query     string  false  "Channel title filter"
// @Param        limit    query     int     false  "Page size"
// @Param        offset   query     int     false  "Page offset"
// @Success      200      {array}   domain.Clip
// @Router       /clips [get]
func (s *Server) handleListClips(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)
	channel := r.URL.Query().Get("channel")

	var clips []*domain.Clip
	var err error
	if channel != "" {
		clips, err = s.clipService.ListByChannel(r.Context(), channel, limit, offset)
	} else {
		clips, err = s.clipService.List(r.Context(), limit, offset)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list clips")
		return
	}

	writeJSON(w, http.StatusOK, clips)
}

// handleGetClip godoc
// @Summary      Get clip
// @Description  Get a clip with its paragraphs, chapters and speaker labels
// @Tags         Clips
// @Produce      json
// @Param        id   path      string  true  "Clip ID"
// @Success      200  {object}  driving.ClipDetail
// @Failure      404  {object}  ErrorResponse  "Clip not found"
// @Router       /clips/{id} [get]
func (s *Server) handleGetClip(w http.ResponseWriter, r *http.Request) {
	detail, err := s.clipService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "clip not found")
		} else {
			writeError(w, http.StatusInternalServerError, "failed to get clip")
		}
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// handleListChannels godoc
// @Summary      List channels
// @Description  List every channel with at least one clip
// @Tags         Clips
// @Produce      json
// @Success      200  {array}  string
// @Router       /channels [get]
func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.clipService.Channels(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list channels")
		return
	}

	writeJSON(w, http.StatusOK, channels)
}

// handleDeleteClip godoc
// @Summary      Delete clip
// @Description  Remove a clip with its paragraphs, chapters and stored audio
// @Tags         Clips
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Clip ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Clip not found"
// @Router       /clips/{id} [delete]
func (s *Server) handleDeleteClip(w http.ResponseWriter, r *http.Request) {
	if err := s.clipService.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "clip not found")
		} else {
			writeError(w, http.StatusInternalServerError, "failed to delete clip")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type relabelRequest struct {
	Scope       domain.RelabelScope `json:"scope"`
	ParagraphID string              `json:"paragraph_id,omitempty"`
	OldLabel    string              `json:"old_label,omitempty"`
	NewLabel    string              `json:"new_label"`
}

// handleRelabel godoc
// @Summary      Relabel speaker
// @Description  Rename a speaker for one paragraph or for every paragraph in the clip carrying the old label
// @Tags         Clips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "Clip ID"
// @Param        request  body      relabelRequest  true  "Relabel request"
// @Success      200      {object}  map[string]int
// @Failure      400      {object}  ErrorResponse  "Invalid relabel request"
// @Failure      404      {object}  ErrorResponse  "Clip or paragraph not found"
// @Router       /clips/{id}/relabel [post]
func (s *Server) handleRelabel(w http.ResponseWriter, r *http.Request) {
	var req relabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.clipService.Relabel(r.Context(), &domain.RelabelRequest{
		ClipID:      r.PathValue("id"),
		Scope:       req.Scope,
		ParagraphID: req.ParagraphID,
		OldLabel:    req.OldLabel,
		NewLabel:    req.NewLabel,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid relabel request")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "clip or paragraph not found")
		default:
			writeError(w, http.StatusInternalServerError, "relabel failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// handleBackfillVideoIDs godoc
// @Summary      Backfill video IDs
// @Description  Extract and store the video identifier for clips that predate video-id tracking
// @Tags         Clips
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int
// @Router       /clips/backfill-video-ids [post]
func (s *Server) handleBackfillVideoIDs(w http.ResponseWriter, r *http.Request) {
	updated, err := s.clipService.BackfillVideoIDs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "backfill failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// Ingestion endpoints

type ingestRequest struct {
	URL string `json:"url"`
}

// handleIngest godoc
// @Summary      Ingest video
// @Description  Synchronously download, transcribe and segment one video. Returns the existing clip when the video was already ingested.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ingestRequest  true  "Video URL"
// @Success      200      {object}  domain.Clip
// @Failure      400      {object}  ErrorResponse  "Missing URL"
// @Failure      409      {object}  ErrorResponse  "Ingestion already in progress"
// @Failure      422      {object}  ErrorResponse  "Video unavailable or too long"
// @Router       /ingest [post]
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clip, err := s.ingestionService.Ingest(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "url is required")
		case errors.Is(err, domain.ErrVideoUnavailable):
			writeError(w, http.StatusUnprocessableEntity, "video unavailable")
		case errors.Is(err, domain.ErrVideoTooLong):
			writeError(w, http.StatusUnprocessableEntity, "video exceeds the duration limit")
		case errors.Is(err, domain.ErrIngestInProgress):
			writeError(w, http.StatusConflict, "ingestion already in progress")
		default:
			writeError(w, http.StatusInternalServerError, "ingestion failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, clip)
}

type ingestBatchRequest struct {
	URLs []string `json:"urls"`
}

// handleIngestBatch godoc
// @Summary      Queue video ingestions
// @Description  Queue a list of video URLs for background ingestion
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ingestBatchRequest  true  "Video URLs"
// @Success      202      {array}   domain.Task
// @Failure      400      {object}  ErrorResponse  "No URLs given"
// @Router       /ingest/batch [post]
func (s *Server) handleIngestBatch(w http.ResponseWriter, r *http.Request) {
	var req ingestBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tasks, err := s.ingestionService.EnqueueBatch(r.Context(), req.URLs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "at least one url is required")
		} else {
			writeError(w, http.StatusInternalServerError, "failed to queue ingestion")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, tasks)
}

// handleTaskStatus godoc
// @Summary      Get task status
// @Tags         Ingestion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Router       /tasks/{id} [get]
func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := s.ingestionService.TaskStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
		} else {
			writeError(w, http.StatusInternalServerError, "failed to get task")
		}
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Indexing endpoint

type indexRequest struct {
	ClipID string `json:"clip_id,omitempty"`
	Sync   bool   `json:"sync,omitempty"`
}

// handleIndex godoc
// @Summary      Backfill embeddings
// @Description  Embed every paragraph without an embedding, for one clip or the whole corpus. Runs inline when sync is set, otherwise queues a task.
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      indexRequest  true  "Index request"
// @Success      200      {object}  driving.IndexReport
// @Success      202      {object}  map[string]string
// @Failure      503      {object}  ErrorResponse  "Embedding service not configured"
// @Router       /index [post]
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Sync {
		report, err := s.indexerService.IndexParagraphs(r.Context(), req.ClipID)
		if err != nil {
			if errors.Is(err, domain.ErrServiceUnavailable) {
				writeError(w, http.StatusServiceUnavailable, "embedding service is not configured")
			} else {
				writeError(w, http.StatusInternalServerError, "indexing failed")
			}
			return
		}
		writeJSON(w, http.StatusOK, report)
		return
	}

	taskID, err := s.indexerService.EnqueueIndex(r.Context(), req.ClipID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue indexing")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

// Helpers

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
