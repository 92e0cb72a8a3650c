package http

import (
	"bytes"
	"context"
	"errors"

	"cv-site/internal/adapter/repository"
	"cv-site/internal/domain"
	"cv-site/internal/render"
	"cv-site/internal/usecase"
	"cv-site/internal/view"
	"cv-site/templates"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	cv        *usecase.CVService
	page      *view.Renderer
	snapshots *usecase.SnapshotProcessor
	// selfURL is where the snapshot browser finds this server's page.
	selfURL string
	// jobCtx bounds background snapshot jobs to the server lifetime.
	jobCtx context.Context
	logger *zap.Logger
}

type Options struct {
	Snapshots *usecase.SnapshotProcessor
	SelfURL   string
	JobCtx    context.Context
	Logger    *zap.Logger
}

func NewHandler(cv *usecase.CVService, page *view.Renderer, o Options) *Handler {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.JobCtx == nil {
		o.JobCtx = context.Background()
	}
	return &Handler{
		cv:        cv,
		page:      page,
		snapshots: o.Snapshots,
		selfURL:   o.SelfURL,
		jobCtx:    o.JobCtx,
		logger:    o.Logger,
	}
}

func unavailable(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
}

func (h *Handler) Page(c *fiber.Ctx) error {
	st := h.cv.Current()
	p := view.Page{CV: st.CV, Sections: st.Sections}
	status := fiber.StatusOK
	if st.Err != nil {
		p = view.Page{Error: st.Err.Error()}
		status = fiber.StatusServiceUnavailable
	}

	var buf bytes.Buffer
	if err := h.page.Render(&buf, p); err != nil {
		h.logger.Error("render page", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func (h *Handler) Stylesheet(c *fiber.Ctx) error {
	c.Type("css", "utf-8")
	return c.SendString(templates.Style)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	st := h.cv.Current()
	resp := fiber.Map{"status": "ok", "loaded": st.Err == nil}
	if !st.LoadedAt.IsZero() {
		resp["loadedAt"] = st.LoadedAt
	}
	if st.Err != nil {
		resp["error"] = st.Err.Error()
	}
	if len(st.Warnings) > 0 {
		resp["warnings"] = st.Warnings
	}
	return c.JSON(resp)
}

func (h *Handler) GetCV(c *fiber.Ctx) error {
	cv, err := h.cv.CV()
	if err != nil {
		return unavailable(c, err)
	}
	return c.JSON(cv)
}

func (h *Handler) GetSections(c *fiber.Ctx) error {
	sections, err := h.cv.Sections()
	if err != nil {
		return unavailable(c, err)
	}
	return c.JSON(sections)
}

func (h *Handler) GetPersonalInfoFields(c *fiber.Ctx) error {
	fields, err := h.cv.PersonalInfoFields()
	if err != nil {
		return unavailable(c, err)
	}
	return c.JSON(fields)
}

func (h *Handler) GetSectionFields(c *fiber.Ctx) error {
	key, ok := render.ParseSectionKey(c.Params("section"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown section"})
	}
	items, err := h.cv.SectionFields(key)
	if err != nil {
		return unavailable(c, err)
	}
	if items == nil {
		items = [][]render.Field{}
	}
	return c.JSON(items)
}

func (h *Handler) Reload(c *fiber.Ctx) error {
	if err := h.cv.Reload(c.UserContext()); err != nil {
		return unavailable(c, err)
	}
	st := h.cv.Current()
	return c.JSON(fiber.Map{"status": "reloaded", "sections": len(st.Sections), "warnings": len(st.Warnings)})
}

// RetryReload backs the retry button on the error page.
func (h *Handler) RetryReload(c *fiber.Ctx) error {
	if err := h.cv.Reload(c.UserContext()); err != nil {
		h.logger.Warn("retry reload failed", zap.Error(err))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// StartSnapshot always captures this server's own page; the request body is
// not consulted.
func (h *Handler) StartSnapshot(c *fiber.Ctx) error {
	if h.snapshots == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "snapshots disabled"})
	}
	snap := h.snapshots.Start(h.jobCtx, h.selfURL)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"snapshotId": snap.ID.String(), "status": "started"})
}

// ListSnapshots returns the most recent snapshots, newest first.
func (h *Handler) ListSnapshots(c *fiber.Ctx) error {
	if h.snapshots == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "snapshots disabled"})
	}
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	snaps, err := h.snapshots.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if snaps == nil {
		snaps = []*domain.Snapshot{}
	}
	return c.JSON(snaps)
}

func (h *Handler) GetSnapshot(c *fiber.Ctx) error {
	if h.snapshots == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "snapshots disabled"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid snapshot id"})
	}
	snap, err := h.snapshots.Get(c.UserContext(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "snapshot not found"})
	}
	if err != nil {
		return err
	}
	if snap.Done() {
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	} else {
		c.Set(fiber.HeaderCacheControl, "no-store")
	}
	return c.JSON(snap)
}
