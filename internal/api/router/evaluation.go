package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/blob"
	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const MaxLeaderboardLimit = 100

// Evaluator scores one submission against a ground truth, either by
// reference or from uploaded content.
type Evaluator interface {
	Evaluate(ctx context.Context, task string, round int, groundTruthRef, submissionRef string) (metrics.ScorePayload, error)
	EvaluateReaders(task string, round int, groundTruth, submission io.Reader) (metrics.ScorePayload, error)
}

type EvaluationRouter struct {
	e         *echo.Echo
	evaluator Evaluator
	store     storage.ResultStore
	roots     []string
}

type EvaluationRouterOption func(*EvaluationRouter)

// WithAllowedRoots restricts local references to the given directories.
// Object store references are always accepted.
func WithAllowedRoots(roots ...string) EvaluationRouterOption {
	return func(r *EvaluationRouter) {
		for _, root := range roots {
			root = strings.TrimSpace(root)
			if root == "" {
				continue
			}
			if abs, err := filepath.Abs(root); err == nil {
				r.roots = append(r.roots, abs)
			}
		}
	}
}

func NewEvaluationRouter(e *echo.Echo, evaluator Evaluator, store storage.ResultStore, opts ...EvaluationRouterOption) *EvaluationRouter {
	r := &EvaluationRouter{
		e:         e,
		evaluator: evaluator,
		store:     store,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *EvaluationRouter) Bind() {
	r.e.POST("/evaluations", r.createHandler)
	r.e.POST("/evaluations/upload", r.uploadHandler)
	r.e.GET("/evaluations/:id", r.getHandler)
	r.e.GET("/leaderboard", r.leaderboardHandler)
}

func (r *EvaluationRouter) createHandler(c echo.Context) error {
	var req EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := req.Validate(); err != nil {
		return err
	}
	for _, ref := range []string{req.GroundTruth, req.Submission} {
		if err := r.checkRef(ref); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	payload, err := r.evaluator.Evaluate(ctx, req.Task, req.RoundOrDefault(), req.GroundTruth, req.Submission)
	if err != nil {
		return err
	}

	return r.saveAndRespond(c, storage.Record{
		Participant: req.Participant,
		Task:        payload.Task,
		Round:       payload.Round,
		GroundTruth: req.GroundTruth,
		Submission:  req.Submission,
		Payload:     payload,
	})
}

// uploadHandler scores a multipart upload carrying both files. Uploaded
// ground truth has no type hierarchy or property relations, so only exact
// matches are scored.
func (r *EvaluationRouter) uploadHandler(c echo.Context) error {
	task := strings.TrimSpace(c.FormValue("task"))
	if task == "" {
		return apperr.NewValidation("task is required")
	}
	round, err := parseRound(c.FormValue("round"))
	if err != nil {
		return err
	}

	gt, gtName, err := openUpload(c, "ground_truth")
	if err != nil {
		return err
	}
	defer gt.Close()

	sub, subName, err := openUpload(c, "submission")
	if err != nil {
		return err
	}
	defer sub.Close()

	payload, err := r.evaluator.EvaluateReaders(task, round, gt, sub)
	if err != nil {
		return err
	}

	return r.saveAndRespond(c, storage.Record{
		Participant: strings.TrimSpace(c.FormValue("participant")),
		Task:        payload.Task,
		Round:       payload.Round,
		GroundTruth: uploadRef(gtName),
		Submission:  uploadRef(subName),
		Payload:     payload,
	})
}

func (r *EvaluationRouter) saveAndRespond(c echo.Context, rec storage.Record) error {
	ctx := c.Request().Context()
	id, err := r.store.Save(ctx, rec)
	if err != nil {
		return err
	}

	stored, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}

	slog.Info("Evaluation stored", "id", id, "task", stored.Task, "round", stored.Round, "participant", stored.Participant, "f1", stored.Payload.F1)
	return c.JSON(http.StatusCreated, stored)
}

func (r *EvaluationRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid evaluation id", err)
	}

	rec, err := r.store.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (r *EvaluationRouter) leaderboardHandler(c echo.Context) error {
	task, err := annotation.ParseTask(c.QueryParam("task"))
	if err != nil {
		return err
	}

	round, err := parseRound(c.QueryParam("round"))
	if err != nil {
		return err
	}
	if !annotation.Round(round).Valid() {
		return apperr.UnknownRound(round, "rounds start at 1")
	}

	limit := storage.DefaultLeaderboardLimit
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			return apperr.NewValidation("limit must be a positive number")
		}
		limit = min(limit, MaxLeaderboardLimit)
	}

	records, err := r.store.Leaderboard(c.Request().Context(), task, annotation.Round(round), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newLeaderboardResponse(string(task), round, records))
}

func (r *EvaluationRouter) checkRef(ref string) error {
	if len(r.roots) == 0 || blob.IsS3(ref) {
		return nil
	}

	abs, err := filepath.Abs(strings.TrimPrefix(ref, "file://"))
	if err != nil {
		return apperr.NewValidationWrap("invalid reference", err)
	}
	for _, root := range r.roots {
		rel, err := filepath.Rel(root, abs)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return apperr.NewValidation("reference " + ref + " is outside the allowed directories")
}

// parseRound reads an optional round value, defaulting to 1.
func parseRound(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 1, nil
	}
	round, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.NewValidationWrap("round must be a number", err)
	}
	return round, nil
}

func openUpload(c echo.Context, field string) (multipart.File, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", apperr.NewValidationWrap(field+" file is required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open uploaded %s: %w", field, err)
	}
	return f, fh.Filename, nil
}

func uploadRef(filename string) string {
	return "upload://" + filepath.Base(filename)
}
