package content

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/laneadvisory/lanesite/internal/cache"
	"github.com/laneadvisory/lanesite/internal/logger"
	"github.com/laneadvisory/lanesite/internal/metrics"
	"github.com/laneadvisory/lanesite/internal/models"
	"github.com/laneadvisory/lanesite/internal/utils"
	"github.com/rs/zerolog"
)

// DefaultLimit applies when a caller asks for zero or a negative number of posts
const DefaultLimit = 50

// Service reads posts and job postings for the page layer. Store failures
// never reach callers; they get an empty result instead.
type Service struct {
	store  Store
	cache  cache.Store
	window time.Duration
	log    zerolog.Logger
}

// NewService wraps store. A nil cache or a zero window disables caching.
func NewService(store Store, c cache.Store, window time.Duration) *Service {
	return &Service{
		store:  store,
		cache:  c,
		window: window,
		log:    logger.With("content"),
	}
}

// FetchPosts returns up to limit posts of site, newest first
func (s *Service) FetchPosts(ctx context.Context, site string, limit int) []models.Post {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var posts []models.Post
	params := map[string]any{"site": site, "limit": limit}
	if err := s.query(ctx, "posts", PostsQuery(false), params, &posts); err != nil {
		return []models.Post{}
	}
	return normalizePosts(posts, site, "", limit)
}

// FetchPostsByType returns up to limit posts of site with the given content type
func (s *Service) FetchPostsByType(ctx context.Context, site string, t models.ContentType, limit int) []models.Post {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var posts []models.Post
	params := map[string]any{"site": site, "contentType": string(t)}
	if err := s.query(ctx, "posts", PostsQuery(true), params, &posts); err != nil {
		return []models.Post{}
	}
	return normalizePosts(posts, site, t, limit)
}

// FetchPostBySlug returns the post of site with the given slug
func (s *Service) FetchPostBySlug(ctx context.Context, site, slug string) (*models.Post, bool) {
	if slug == "" {
		return nil, false
	}

	var post *models.Post
	params := map[string]any{"site": site, "slug": slug}
	if err := s.query(ctx, "post", PostBySlugQuery(), params, &post); err != nil {
		return nil, false
	}
	if post == nil || post.Site != site || post.Slug != slug {
		return nil, false
	}
	normalizePost(post)
	return post, true
}

// FetchJobPostings returns the job postings of site matching f, newest first
func (s *Service) FetchJobPostings(ctx context.Context, site string, f JobFilter) []models.JobPosting {
	var jobs []models.JobPosting
	params := map[string]any{"site": site}
	if f.Department != "" {
		params["department"] = f.Department
	}
	if f.Status != "" {
		params["status"] = string(f.Status)
	}
	if err := s.query(ctx, "jobs", JobPostingsQuery(f), params, &jobs); err != nil {
		return []models.JobPosting{}
	}
	return normalizeJobs(jobs, site, f)
}

// Revalidate drops every cached result so the next request reads the store
func (s *Service) Revalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear content cache: %w", err)
	}
	s.log.Info().Msg("Content cache cleared")
	return nil
}

// query serves a cached snapshot when one exists inside the window and
// otherwise asks the store. Only successful results are written back.
func (s *Service) query(ctx context.Context, kind, q string, params map[string]any, out any) error {
	key, cacheable := s.cacheKey(q, params)
	if cacheable {
		if s.readCache(ctx, key, out) {
			return nil
		}
	}

	if err := s.store.Query(ctx, q, params, out); err != nil {
		metrics.ContentFetchFailures.WithLabelValues(kind).Inc()
		s.log.Error().
			Err(err).
			Str("kind", kind).
			Interface("params", params).
			Msg("Content fetch failed")
		return err
	}

	if cacheable {
		s.writeCache(ctx, key, out)
	}
	return nil
}

func (s *Service) cacheKey(q string, params map[string]any) (string, bool) {
	if s.cache == nil || s.window <= 0 {
		return "", false
	}
	// encoding/json sorts map keys, so equal params give equal keys
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", false
	}
	return utils.Hash(q, string(encoded)), true
}

func (s *Service) readCache(ctx context.Context, key string, out any) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("Content cache read failed")
		return false
	}
	if !ok {
		metrics.ContentCache.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn().Err(err).Msg("Discarding unreadable content cache entry")
		return false
	}
	metrics.ContentCache.WithLabelValues("hit").Inc()
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode content for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.window); err != nil {
		s.log.Warn().Err(err).Msg("Content cache write failed")
	}
}

// normalizePosts enforces the site and type filters whatever the store
// returned, then orders, truncates and fills derived fields.
func normalizePosts(posts []models.Post, site string, t models.ContentType, limit int) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		p := posts[i]
		if p.Site != site {
			continue
		}
		if t != "" {
			if !p.HasType(t) {
				continue
			}
			if !p.ContentType.Valid() {
				p.ContentType = t
			}
		}
		normalizePost(&p)
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func normalizePost(p *models.Post) {
	if p.EstimatedReadingTime != nil && *p.EstimatedReadingTime > 0 {
		p.ReadingTime = *p.EstimatedReadingTime
	} else {
		p.ReadingTime = EstimateReadingTime(p.Body)
	}
	if !p.ContentType.Valid() {
		p.ContentType = models.ClassifyCategories(p.Categories)
	}
}

func normalizeJobs(jobs []models.JobPosting, site string, f JobFilter) []models.JobPosting {
	out := make([]models.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		if j.Site != site {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.Department != "" && j.Department != f.Department {
			continue
		}
		out = append(out, j)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}
