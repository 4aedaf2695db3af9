package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mnemo-app/mnemo/internal/review"
	"github.com/mnemo-app/mnemo/internal/scheduler"
	"github.com/mnemo-app/mnemo/internal/settings"
)

// ReviewHandler serves grade submission and queue assembly.
type ReviewHandler struct {
	items        review.ItemRepository
	history      review.HistoryRepository
	userSettings settings.Repository
	validate     *validator.Validate

	// newEngine is the algorithm seam: tests and future algorithms (FSRS)
	// replace it without touching the handler.
	newEngine func(scheduler.Settings) (scheduler.Engine, error)
	now       func() time.Time
}

// NewReviewHandler creates a new ReviewHandler backed by the SM-2 engine.
func NewReviewHandler(
	items review.ItemRepository,
	history review.HistoryRepository,
	userSettings settings.Repository,
	validate *validator.Validate,
) *ReviewHandler {
	return &ReviewHandler{
		items:        items,
		history:      history,
		userSettings: userSettings,
		validate:     validate,
		newEngine: func(s scheduler.Settings) (scheduler.Engine, error) {
			return scheduler.NewSM2(s)
		},
		now: time.Now,
	}
}

type submitGradeRequest struct {
	ReviewItemID string `json:"review_item_id" validate:"required"`
	Grade        int    `json:"grade"`
	DurationMs   int    `json:"duration_ms" validate:"gte=0"`
}

type submitGradeResponse struct {
	NextReview   string  `json:"next_review"`
	IntervalDays float64 `json:"interval_days"`
	State        string  `json:"state"`
}

// SubmitGrade grades one review item and persists the scheduling result.
// A concurrent grade of the same item surfaces as a conflict after one
// retry; the stored state is never silently overwritten.
func (h *ReviewHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	var req submitGradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	grade := scheduler.Grade(req.Grade)
	if !grade.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid grade: %d", req.Grade))
		return
	}

	ctx := r.Context()
	userID := requestUserID(r)

	userSettings, err := h.userSettings.Get(ctx, userID)
	if err != nil {
		slog.Error("failed to load settings", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	engine, err := h.newEngine(userSettings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := h.now().UTC()
	item, err := h.gradeWithRetry(ctx, engine, userID, req, grade, now)
	if errors.Is(err, review.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("review item %s not found", req.ReviewItemID))
		return
	}
	if errors.Is(err, review.ErrConflict) {
		writeError(w, http.StatusConflict, "review item was graded concurrently, retry")
		return
	}
	if err != nil {
		slog.Error("failed to grade review item", "item", req.ReviewItemID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to grade review item")
		return
	}

	writeJSON(w, http.StatusOK, submitGradeResponse{
		NextReview:   item.DueDate.Format(time.RFC3339),
		IntervalDays: item.Interval().InDays(),
		State:        string(item.State),
	})
}

// gradeWithRetry runs the read-schedule-write cycle. The write is
// conditional on the state the item was read in; losing it to a concurrent
// grade is retried once against the fresh state before giving up with
// ErrConflict.
func (h *ReviewHandler) gradeWithRetry(
	ctx context.Context,
	engine scheduler.Engine,
	userID string,
	req submitGradeRequest,
	grade scheduler.Grade,
	now time.Time,
) (*scheduler.ReviewItem, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		item, err := h.items.FindByID(ctx, userID, req.ReviewItemID)
		if err != nil {
			return nil, err
		}

		result, err := engine.Schedule(*item, grade, now)
		if err != nil {
			return nil, err
		}

		before := *item
		item.Apply(result, now)

		if err := h.items.UpdateScheduled(ctx, *item, before.State, before.DueDate); err != nil {
			lastErr = err
			if errors.Is(err, review.ErrConflict) {
				continue
			}
			return nil, err
		}

		record := &review.HistoryRecord{
			ReviewItemID:   item.ID,
			UserID:         userID,
			Grade:          grade,
			DurationMs:     req.DurationMs,
			BeforeState:    before.State,
			BeforeInterval: before.Interval().InDays(),
			BeforeEase:     before.EaseFactor,
			AfterState:     item.State,
			AfterInterval:  item.Interval().InDays(),
			AfterEase:      item.EaseFactor,
			ReviewedAt:     now,
		}
		if err := h.history.Append(ctx, record); err != nil {
			// The conditional write already went through, so the grade is
			// applied but unrecorded and today's new-card count may lag.
			slog.Error("grade applied but history append failed",
				"item", item.ID, "user", userID, "error", err)
			return nil, fmt.Errorf("append review history: %w", err)
		}
		return item, nil
	}
	return nil, lastErr
}

type queueResponse struct {
	Queue []scheduler.QueueItem `json:"queue"`
	Stats scheduler.QueueStats  `json:"stats"`
}

// GetQueue assembles the user's review session for right now.
func (h *ReviewHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestUserID(r)

	opts := scheduler.QueueOptions{}
	if all := r.URL.Query().Get("all"); all != "" {
		parsed, err := strconv.ParseBool(all)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid all parameter")
			return
		}
		opts.All = parsed
	}
	if extra := r.URL.Query().Get("extra_new"); extra != "" {
		parsed, err := strconv.Atoi(extra)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid extra_new parameter")
			return
		}
		opts.ExtraNew = parsed
	}

	userSettings, err := h.userSettings.Get(ctx, userID)
	if err != nil {
		slog.Error("failed to load settings", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	candidates, err := h.items.FindQueueCandidates(ctx, userID)
	if err != nil {
		slog.Error("failed to load queue candidates", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load review items")
		return
	}

	now := h.now().UTC()
	gradedNewToday, err := h.history.CountNewGradedSince(ctx, userID, startOfDay(now))
	if err != nil {
		slog.Error("failed to count new items graded today", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load review history")
		return
	}

	queue, stats := scheduler.BuildQueue(candidates, gradedNewToday, userSettings, now, opts)
	if queue == nil {
		queue = []scheduler.QueueItem{}
	}
	writeJSON(w, http.StatusOK, queueResponse{Queue: queue, Stats: stats})
}

// startOfDay returns midnight UTC of the given time. The new-card quota
// resets on UTC day boundaries.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
