package catalog

import (
	"sort"
	"strings"

	"github.com/rpupo63/portfolio-backend/models"
)

// FilterProjects returns the projects whose name or overview contains term
// (ignoring case) and whose technologies include every facet. The term is
// matched as given, surrounding spaces included. Input order is preserved and
// the input slice is not modified.
func FilterProjects(projects []*models.Project, term string, facets []string) []*models.Project {
	term = strings.ToLower(term)
	out := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if p == nil {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Overview), term) {
			continue
		}
		if !hasAllTechnologies(p, facets) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAllTechnologies(p *models.Project, facets []string) bool {
	if len(facets) == 0 {
		return true
	}
	names := make(map[string]bool, len(p.Technologies))
	for _, t := range p.Technologies {
		names[t.Name] = true
	}
	for _, f := range facets {
		if !names[f] {
			return false
		}
	}
	return true
}

// TechnologyVocabulary is the sorted set of technology names used across projects
func TechnologyVocabulary(projects []*models.Project) []string {
	seen := make(map[string]bool)
	vocab := []string{}
	for _, p := range projects {
		if p == nil {
			continue
		}
		for _, name := range p.TechnologyNames() {
			if !seen[name] {
				seen[name] = true
				vocab = append(vocab, name)
			}
		}
	}
	sort.Strings(vocab)
	return vocab
}
