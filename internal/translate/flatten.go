package translate

import (
	"fmt"

	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

// Flattening converts the typed content sections into dot-delimited
// content keys. Arrays expand index-by-index and empty fields are kept
// as empty strings so every expected key exists in the store.

// FlattenProject returns the batch items for one project:
// projects.<slug>.title, projects.<slug>.features.<i>, and so on.
func FlattenProject(p models.Project) []BatchItem {
	prefix := "projects." + p.Slug
	items := []BatchItem{
		{Key: prefix + ".title", Text: p.Title},
		{Key: prefix + ".description", Text: p.Description},
	}
	items = appendIndexed(items, prefix+".features", p.Features)
	items = appendIndexed(items, prefix+".challenges", p.Challenges)
	items = appendIndexed(items, prefix+".learnings", p.Learnings)
	return items
}

// FlattenResume returns the batch items for the resume section.
func FlattenResume(r models.Resume) []BatchItem {
	items := []BatchItem{
		{Key: "resume.summary", Text: r.Summary},
	}
	for i, e := range r.Experience {
		prefix := fmt.Sprintf("resume.experience.%d", i)
		items = append(items,
			BatchItem{Key: prefix + ".title", Text: e.Title},
			BatchItem{Key: prefix + ".organization", Text: e.Organization},
			BatchItem{Key: prefix + ".description", Text: e.Description},
		)
	}
	for i, e := range r.Education {
		prefix := fmt.Sprintf("resume.education.%d", i)
		items = append(items,
			BatchItem{Key: prefix + ".title", Text: e.Title},
			BatchItem{Key: prefix + ".organization", Text: e.Organization},
			BatchItem{Key: prefix + ".description", Text: e.Description},
		)
	}
	return items
}

// FlattenContact returns the batch items for the contact section.
func FlattenContact(c models.Contact) []BatchItem {
	return []BatchItem{
		{Key: "contact.title", Text: c.Title},
		{Key: "contact.subtitle", Text: c.Subtitle},
		{Key: "contact.labels.name", Text: c.Labels.Name},
		{Key: "contact.labels.email", Text: c.Labels.Email},
		{Key: "contact.labels.message", Text: c.Labels.Message},
		{Key: "contact.labels.submit", Text: c.Labels.Submit},
	}
}

func appendIndexed(items []BatchItem, prefix string, values []string) []BatchItem {
	for i, v := range values {
		items = append(items, BatchItem{
			Key:  fmt.Sprintf("%s.%d", prefix, i),
			Text: v,
		})
	}
	return items
}
