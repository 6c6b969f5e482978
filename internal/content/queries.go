package content

import (
	"strings"

	"github.com/laneadvisory/lanesite/internal/models"
)

const imageProjection = `{
    asset->{"id": _id, url},
    alt
  }`

const postProjection = `{
  "id": _id,
  title,
  "slug": slug.current,
  excerpt,
  body,
  mainImage ` + imageProjection + `,
  author->{
    name,
    bio,
    image ` + imageProjection + `
  },
  categories[]->{
    "id": _id,
    title,
    "slug": slug.current
  },
  tags,
  publishedAt,
  estimatedReadingTime,
  site,
  contentType
}`

const jobProjection = `{
  "id": _id,
  title,
  "slug": slug.current,
  department,
  location,
  employmentType,
  experienceLevel,
  summary,
  skills,
  salaryRange,
  applicationEmail,
  applicationDeadline,
  status,
  urgent,
  featured,
  publishedAt,
  site
}`

// PostsQuery selects the newest posts of a site, at most $limit. When withType
// is set the query takes $contentType instead of $limit: posts without an
// explicit type are kept so their categories can still classify them, and the
// result is not sliced because the cut can only happen after classification.
func PostsQuery(withType bool) string {
	filters := []string{`_type == "post"`, `site == $site`, `defined(slug.current)`}
	if withType {
		filters = append(filters, `(contentType == $contentType || !defined(contentType))`)
		return build(filters, "", postProjection)
	}
	return build(filters, "[0...$limit]", postProjection)
}

// PostBySlugQuery selects a single post by slug; params $site and $slug
func PostBySlugQuery() string {
	filters := []string{`_type == "post"`, `site == $site`, `slug.current == $slug`}
	return build(filters, "[0]", postProjection)
}

// JobPostingsQuery selects job postings of a site, optionally narrowed by
// $department and $status.
func JobPostingsQuery(f JobFilter) string {
	filters := []string{`_type == "jobPosting"`, `site == $site`, `defined(slug.current)`}
	if f.Department != "" {
		filters = append(filters, `department == $department`)
	}
	if f.Status != "" {
		filters = append(filters, `status == $status`)
	}
	return build(filters, "", jobProjection)
}

// JobFilter narrows a job postings query
type JobFilter struct {
	Department string
	Status     models.JobStatus
}

func build(filters []string, slice, projection string) string {
	var sb strings.Builder
	sb.WriteString("*[")
	sb.WriteString(strings.Join(filters, " && "))
	sb.WriteString("] | order(publishedAt desc)")
	sb.WriteString(slice)
	sb.WriteString(" ")
	sb.WriteString(projection)
	return sb.String()
}
