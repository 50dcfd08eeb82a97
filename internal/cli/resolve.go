package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/grantplan/internal/domain"
)

// resolveProjectID resolves a project identifier which can be:
//   - An acronym (case-insensitive, must be unique)
//   - A full UUID
//   - A UUID prefix
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Planning.List(ctx, false)
	if err != nil {
		return "", err
	}

	// 1. Exact UUID match
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	// 2. Acronym match
	var matches []string
	for _, p := range projects {
		if p.Acronym != "" && strings.EqualFold(p.Acronym, input) {
			matches = append(matches, p.ID)
		}
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("acronym %q is shared by %d projects; use the UUID", input, len(matches))
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	// 3. UUID prefix match
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveOrganization finds an organization by UUID, name or UUID prefix.
func resolveOrganization(input string, orgs []*domain.Organization) (*domain.Organization, error) {
	for _, o := range orgs {
		if o.ID == input {
			return o, nil
		}
	}

	var matches []*domain.Organization
	for _, o := range orgs {
		if strings.EqualFold(o.Name, input) {
			matches = append(matches, o)
		}
	}
	if len(matches) == 0 {
		for _, o := range orgs {
			if strings.HasPrefix(o.ID, input) {
				matches = append(matches, o)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("organization not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("organization %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolvePartner finds a template partner by id or name.
func resolvePartner(input string, partners []domain.Partner) (string, error) {
	var matches []string
	for _, p := range partners {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.EqualFold(p.Name, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("template has no partner %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("template partner name %q is ambiguous; use the partner id", input)
	}
}

// parseMappings turns repeated SRC=ORG flags into a partner-to-organization map.
func parseMappings(pairs []string, partners []domain.Partner, orgs []*domain.Organization) (map[string]string, error) {
	mapping := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		src, dst, ok := strings.Cut(pair, "=")
		src, dst = strings.TrimSpace(src), strings.TrimSpace(dst)
		if !ok || src == "" || dst == "" {
			return nil, fmt.Errorf("invalid --map %q: expected PARTNER=ORGANIZATION", pair)
		}
		partnerID, err := resolvePartner(src, partners)
		if err != nil {
			return nil, err
		}
		org, err := resolveOrganization(dst, orgs)
		if err != nil {
			return nil, err
		}
		mapping[partnerID] = org.ID
	}
	return mapping, nil
}
