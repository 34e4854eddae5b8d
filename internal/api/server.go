// Package api exposes the HTTP surface: post creation and listing,
// scheduling control, and health.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"postflow/internal/domain"
	"postflow/internal/scheduler"
	"postflow/internal/worker"
)

// Store is the slice of the persistence layer the handlers need.
type Store interface {
	InsertPost(ctx context.Context, rec domain.PostRecord) (string, error)
	ListPosts(ctx context.Context) ([]domain.PostRecord, error)
	Ping(ctx context.Context) error
}

// Publisher runs one publish invocation, either generated end-to-end
// or with fixed content.
type Publisher interface {
	Run(ctx context.Context) (string, error)
	PublishContent(ctx context.Context, content string) (string, error)
}

// Scheduler controls the recurring job slot and one-shot jobs.
type Scheduler interface {
	Schedule(ctx context.Context) (string, error)
	Stop() bool
	ScheduleOnce(content string, at time.Time) string
	NextRun() time.Time
	Running() bool
}

type Server struct {
	r         *chi.Mux
	store     Store
	publisher Publisher
	sched     Scheduler
	pool      *worker.Pool
}

func NewServer(st Store, publisher Publisher, sched Scheduler, pool *worker.Pool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	s := &Server{r: r, store: st, publisher: publisher, sched: sched, pool: pool}

	r.Post("/posts/", s.createPost)
	r.Get("/posts/", s.listPosts)
	r.Post("/trigger-post/", s.triggerPost)
	r.Post("/schedule-posts/", s.schedulePosts)
	r.Post("/stop-scheduled-posts/", s.stopScheduledPosts)
	r.Get("/next-post-time/", s.nextPostTime)
	r.Get("/health/", s.health)

	return r
}

type postReq struct {
	Content      string `json:"content"`
	ScheduleTime string `json:"schedule_time,omitempty"`
}

type postResp struct {
	ID       string    `json:"id"`
	Content  string    `json:"content"`
	PostedAt time.Time `json:"posted_at"`
	Status   string    `json:"status"`
}

// createPost publishes immediately as a detached background task, or
// schedules a one-shot publish when schedule_time is given. The record
// id is returned either way so the outcome can be polled.
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req postReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	if req.ScheduleTime != "" {
		at, err := scheduler.ParseScheduleTime(req.ScheduleTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid datetime format. Use ISO format.")
			return
		}
		jobID := s.sched.ScheduleOnce(req.Content, at)

		now := time.Now()
		id, err := s.store.InsertPost(r.Context(), domain.PostRecord{
			Content:  req.Content,
			PostedAt: now,
			Status:   domain.StatusScheduled,
			JobID:    jobID,
			PostTime: at,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, postResp{
			ID:       id,
			Content:  req.Content,
			PostedAt: now,
			Status:   "scheduled for " + req.ScheduleTime,
		})
		return
	}

	now := time.Now()
	id, err := s.store.InsertPost(r.Context(), domain.PostRecord{
		Content:  req.Content,
		PostedAt: now,
		Status:   domain.StatusPending,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	content := req.Content
	s.pool.Submit("publish-post", func(ctx context.Context) {
		_, _ = s.publisher.PublishContent(ctx, content)
	})

	writeJSON(w, http.StatusOK, postResp{
		ID:       id,
		Content:  req.Content,
		PostedAt: now,
		Status:   domain.StatusPending,
	})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResp{ID: p.ID, Content: p.Content, PostedAt: p.PostedAt, Status: p.Status})
	}
	writeJSON(w, http.StatusOK, out)
}

// triggerPost publishes now and waits for the outcome. With content it
// publishes the given text; without, it runs the full generation
// pipeline.
func (s *Server) triggerPost(w http.ResponseWriter, r *http.Request) {
	var req postReq
	// An empty or missing body means a full pipeline run.
	_ = json.NewDecoder(r.Body).Decode(&req)

	var (
		id  string
		err error
	)
	if req.Content != "" {
		id, err = s.publisher.PublishContent(r.Context(), req.Content)
	} else {
		id, err = s.publisher.Run(r.Context())
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to create LinkedIn post",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "LinkedIn post has been created",
		"post_id": id,
	})
}

func (s *Server) schedulePosts(w http.ResponseWriter, r *http.Request) {
	jobID, err := s.sched.Schedule(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"job_id": jobID,
	})
}

func (s *Server) stopScheduledPosts(w http.ResponseWriter, r *http.Request) {
	if s.sched.Stop() {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Scheduled posts have been stopped",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "info",
		"message": "No scheduled posts to stop",
	})
}

func (s *Server) nextPostTime(w http.ResponseWriter, r *http.Request) {
	next := s.sched.NextRun()
	countdown := int(time.Until(next).Seconds())
	writeJSON(w, http.StatusOK, map[string]any{
		"next_post_time":    next.Format("2006-01-02 15:04:05"),
		"countdown_seconds": countdown,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	schedState := "stopped"
	if s.sched.Running() {
		schedState = "running"
	}

	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "unhealthy",
			"database":  "disconnected",
			"scheduler": schedState,
			"error":     err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"database":  "connected",
		"scheduler": schedState,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
