// Package editorial holds the fixed set of sections the site publishes
// under. The section slug is the first segment of every article URL, so
// handlers validate against this list before querying the CMS.
package editorial

// Section is one top-level navigation entry.
type Section struct {
	Slug string
	Name string
}

// Sections lists the publishable sections in navigation order.
var Sections = []Section{
	{Slug: "world", Name: "World"},
	{Slug: "politics", Name: "Politics"},
	{Slug: "business", Name: "Business"},
	{Slug: "tech", Name: "Tech"},
	{Slug: "science", Name: "Science"},
	{Slug: "health", Name: "Health"},
	{Slug: "sports", Name: "Sports"},
	{Slug: "culture", Name: "Culture"},
	{Slug: "education", Name: "Education"},
	{Slug: "opinion", Name: "Opinion"},
}

var bySlug = func() map[string]Section {
	m := make(map[string]Section, len(Sections))
	for _, s := range Sections {
		m[s.Slug] = s
	}
	return m
}()

// IsValid reports whether slug names a publishable section.
func IsValid(slug string) bool {
	_, ok := bySlug[slug]
	return ok
}

// Name returns the display name for slug, or the slug itself when it is
// not a known section.
func Name(slug string) string {
	if s, ok := bySlug[slug]; ok {
		return s.Name
	}
	return slug
}
