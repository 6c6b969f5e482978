package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/laneadvisory/lanesite/internal/config"
	"github.com/laneadvisory/lanesite/internal/content"
	"github.com/laneadvisory/lanesite/internal/enquiry"
	"github.com/laneadvisory/lanesite/internal/middleware"
	"github.com/laneadvisory/lanesite/internal/models"
)

const version = "1.0.0"

type Handlers struct {
	config  *config.Config
	intake  *enquiry.Service
	content *content.Service
	started time.Time
}

func NewHandlers(cfg *config.Config, intake *enquiry.Service, content *content.Service) *Handlers {
	return &Handlers{
		config:  cfg,
		intake:  intake,
		content: content,
		started: time.Now(),
	}
}

// PostsQuery are the query parameters of GET /api/v1/posts
type PostsQuery struct {
	Site  string `query:"site"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	Type  string `query:"type" validate:"omitempty,oneof=article whitepaper caseStudy newsPress"`
}

// JobsQuery are the query parameters of GET /api/v1/jobs
type JobsQuery struct {
	Site       string `query:"site"`
	Department string `query:"department"`
	Status     string `query:"status" validate:"omitempty,oneof=open closed"`
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
		"time":    time.Now().Format(time.RFC3339),
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Contact handles /api/contact
func (h *Handlers) Contact(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return methodNotAllowed(c)
	}

	var req models.ContactEnquiry
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	receipt, err := h.intake.SubmitContact(c.UserContext(), &req)
	if err != nil {
		return h.enquiryFailed(c, err, "Error processing your inquiry. Please try again or contact us directly.")
	}

	return c.JSON(fiber.Map{
		"message":   "Contact form submitted successfully",
		"timestamp": receipt.SubmittedAt.Format(time.RFC3339),
		"urgency":   receipt.Urgency,
		"reference": receipt.Reference,
	})
}

// CareersEnquiry handles /api/careers-enquiry
func (h *Handlers) CareersEnquiry(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return methodNotAllowed(c)
	}

	var req models.CareerEnquiry
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	receipt, err := h.intake.SubmitCareer(c.UserContext(), &req)
	if err != nil {
		return h.enquiryFailed(c, err, "Error processing your enquiry. Please try again or contact us directly.")
	}

	return c.JSON(fiber.Map{
		"message":   "Career enquiry submitted successfully",
		"timestamp": receipt.SubmittedAt.Format(time.RFC3339),
		"reference": receipt.Reference,
	})
}

func methodNotAllowed(c *fiber.Ctx) error {
	middleware.Log(c).Debug().Err(enquiry.ErrMethodNotAllowed).Msg("Rejected form request")
	c.Set(fiber.HeaderAllow, fiber.MethodPost)
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"message": "Method not allowed",
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	middleware.Log(c).Warn().Err(err).Msg("Undecodable form body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}

func (h *Handlers) enquiryFailed(c *fiber.Ctx, err error, message string) error {
	var verr *enquiry.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing required fields",
			"fields":  verr.Fields,
		})
	}

	event := middleware.Log(c).Error().Err(err)
	var derr *enquiry.DeliveryError
	if errors.As(err, &derr) {
		event = event.Str("stage", derr.Stage)
	}
	event.Msg("Failed to process enquiry")

	body := fiber.Map{"message": message}
	if h.config.DebugErrors {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

// ListPosts handles GET /api/v1/posts
func (h *Handlers) ListPosts(c *fiber.Ctx) error {
	q := c.Locals("queryParams").(*PostsQuery)
	site, ok := h.site(q.Site)
	if !ok {
		return unknownSite(c)
	}

	var posts []models.Post
	if q.Type != "" {
		posts = h.content.FetchPostsByType(c.UserContext(), site, models.ContentType(q.Type), q.Limit)
	} else {
		posts = h.content.FetchPosts(c.UserContext(), site, q.Limit)
	}

	return c.JSON(fiber.Map{
		"data":  posts,
		"count": len(posts),
		"site":  site,
	})
}

// GetPost handles GET /api/v1/posts/:slug
func (h *Handlers) GetPost(c *fiber.Ctx) error {
	site, ok := h.site(c.Query("site"))
	if !ok {
		return unknownSite(c)
	}

	post, ok := h.content.FetchPostBySlug(c.UserContext(), site, c.Params("slug"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	return c.JSON(post)
}

// ListJobs handles GET /api/v1/jobs
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	q := c.Locals("queryParams").(*JobsQuery)
	site, ok := h.site(q.Site)
	if !ok {
		return unknownSite(c)
	}

	jobs := h.content.FetchJobPostings(c.UserContext(), site, content.JobFilter{
		Department: q.Department,
		Status:     models.JobStatus(q.Status),
	})

	return c.JSON(fiber.Map{
		"data":  jobs,
		"count": len(jobs),
		"site":  site,
	})
}

// Revalidate handles POST /api/v1/admin/revalidate
func (h *Handlers) Revalidate(c *fiber.Ctx) error {
	if err := h.content.Revalidate(c.UserContext()); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{
		"revalidated": true,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

// site resolves the ?site= parameter. Anything outside SITE_TAG and
// SITE_ALLOWLIST is refused.
func (h *Handlers) site(requested string) (string, bool) {
	if requested == "" {
		return h.config.SiteTag, true
	}
	return requested, h.config.SiteAllowed(requested)
}

func unknownSite(c *fiber.Ctx) error {
	middleware.Log(c).Warn().Str("site", c.Query("site")).Msg("Rejected content request for unknown site")
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Site not found",
	})
}
