package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
)

// ErrInvalidPayload marks any structural problem found while decoding.
var ErrInvalidPayload = errors.New("invalid snapshot payload")

// Decode parses canonical (or hand-written) JSON into a tree.
func Decode(data []byte) (*domain.ProjectTree, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return ToTree(&p)
}

// ToTree validates a payload and converts it to the normalized tree shape.
// A zero schema version is read as the current layout. Node dates left
// empty inherit the project window; malformed dates are an error.
func ToTree(p *Payload) (*domain.ProjectTree, error) {
	if p.Meta.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d is newer than supported %d",
			ErrInvalidPayload, p.Meta.SchemaVersion, SchemaVersion)
	}

	d := &decoder{}
	project := domain.Project{
		ID:             p.Project.ID,
		Title:          p.Project.Title,
		Acronym:        p.Project.Acronym,
		DurationMonths: p.Project.DurationMonths,
		NationalAgency: strings.ToUpper(strings.TrimSpace(p.Project.NationalAgency)),
		Language:       p.Project.Language,
	}
	project.StartDate = d.date("project.start_date", p.Project.StartDate, time.Time{})
	if d.err != nil {
		return nil, d.err
	}
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("%w: project: %v", ErrInvalidPayload, err)
	}
	d.start, d.end = project.StartDate, project.EndDate()

	tree := &domain.ProjectTree{
		Project: project,
		Modules: d.modules("project", p.Modules),
	}
	for i, s := range p.Sections {
		path := fmt.Sprintf("sections[%d]", i)
		if strings.TrimSpace(s.Title) == "" {
			d.fail("%s: title is required", path)
		}
		tree.Sections = append(tree.Sections, domain.SectionNode{
			Section: domain.Section{ID: s.ID, Title: s.Title, OrderIndex: s.OrderIndex},
			Modules: d.modules(path, s.Modules),
			Works:   d.works(path+".works", s.ID, s.Works),
		})
	}
	tree.UnassignedWorks = d.works("unassigned_works", "", p.UnassignedWorks)

	seen := make(map[string]bool, len(p.Partners))
	for i, pd := range p.Partners {
		path := fmt.Sprintf("partners[%d]", i)
		if pd.ID == "" {
			d.fail("%s: id is required", path)
		}
		if seen[pd.ID] {
			d.fail("%s: duplicate partner id %q", path, pd.ID)
		}
		seen[pd.ID] = true
		role := domain.PartnerRole(domain.CoalesceStr(pd.Role, string(domain.RolePartner)))
		switch role {
		case domain.RoleCoordinator, domain.RolePartner, domain.RoleOther:
		default:
			d.fail("%s: unknown role %q", path, pd.Role)
		}
		tree.Partners = append(tree.Partners, domain.Partner{
			ID:             pd.ID,
			OrganizationID: domain.StrPtr(pd.OrganizationID),
			Name:           pd.Name,
			Role:           role,
			Budget:         pd.Budget,
			Nation:         pd.Nation,
			City:           pd.City,
			Type:           pd.Type,
			Email:          pd.Email,
			Phone:          pd.Phone,
			Website:        pd.Website,
			Address:        pd.Address,
		})
	}

	if d.err != nil {
		return nil, d.err
	}
	return tree, nil
}

// decoder accumulates the first error so conversion code stays linear.
type decoder struct {
	start, end time.Time
	err        error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
	}
}

func (d *decoder) date(path, raw string, fallback time.Time) time.Time {
	if raw == "" {
		if fallback.IsZero() {
			d.fail("%s is required", path)
		}
		return fallback
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		d.fail("%s: %q is not a YYYY-MM-DD date", path, raw)
		return fallback
	}
	return t
}

func (d *decoder) modules(path string, docs []ModuleDoc) []domain.Module {
	var out []domain.Module
	for i, m := range docs {
		status := domain.ModuleStatus(domain.CoalesceStr(m.Status, string(domain.ModuleTodo)))
		if !domain.ValidModuleStatuses[status] {
			d.fail("%s.modules[%d]: unknown status %q", path, i, m.Status)
		}
		if m.CharLimit < 0 {
			d.fail("%s.modules[%d]: negative character limit", path, i)
		}
		out = append(out, domain.Module{
			ID:         m.ID,
			Title:      m.Title,
			Subtitle:   m.Subtitle,
			OrderIndex: m.OrderIndex,
			Guidelines: m.Guidelines,
			CharLimit:  m.CharLimit,
			Status:     status,
			Content:    m.Content,
		})
	}
	return out
}

func (d *decoder) works(path, sectionID string, docs []WorkDoc) []domain.WorkNode {
	var out []domain.WorkNode
	for i, w := range docs {
		wpath := fmt.Sprintf("%s[%d]", path, i)
		if strings.TrimSpace(w.Title) == "" {
			d.fail("%s: title is required", wpath)
		}
		node := domain.WorkNode{
			Work: domain.WorkItem{
				ID:          w.ID,
				SectionID:   domain.StrPtr(sectionID),
				Title:       w.Title,
				Description: w.Description,
				StartDate:   d.date(wpath+".start_date", w.StartDate, d.start),
				EndDate:     d.date(wpath+".end_date", w.EndDate, d.end),
				Budget:      w.Budget,
			},
			Modules: d.modules(wpath, w.Modules),
		}
		for j, l := range w.Partners {
			if l.PartnerID == "" {
				d.fail("%s.partners[%d]: partner_id is required", wpath, j)
			}
			node.Partners = append(node.Partners, domain.WorkPartner{
				WorkItemID: w.ID, PartnerID: l.PartnerID, Role: l.Role, Budget: l.Budget,
			})
		}
		for j, t := range w.Tasks {
			node.Tasks = append(node.Tasks, d.task(fmt.Sprintf("%s.tasks[%d]", wpath, j), t))
		}
		out = append(out, node)
	}
	return out
}

func (d *decoder) task(path string, t TaskDoc) domain.TaskNode {
	if strings.TrimSpace(t.Title) == "" {
		d.fail("%s: title is required", path)
	}
	node := domain.TaskNode{
		Task: domain.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			StartDate:   d.date(path+".start_date", t.StartDate, d.start),
			EndDate:     d.date(path+".end_date", t.EndDate, d.end),
			Budget:      t.Budget,
		},
		Modules: d.modules(path, t.Modules),
	}
	for j, l := range t.Partners {
		if l.PartnerID == "" {
			d.fail("%s.partners[%d]: partner_id is required", path, j)
		}
		node.Partners = append(node.Partners, domain.TaskPartner{
			TaskID: t.ID, PartnerID: l.PartnerID, Role: l.Role, Budget: l.Budget,
		})
	}
	for j, a := range t.Activities {
		apath := fmt.Sprintf("%s.activities[%d]", path, j)
		if strings.TrimSpace(a.Title) == "" {
			d.fail("%s: title is required", apath)
		}
		node.Activities = append(node.Activities, domain.ActivityNode{
			Activity: domain.Activity{
				ID:              a.ID,
				Title:           a.Title,
				Description:     a.Description,
				EstimatedStart:  d.date(apath+".estimated_start", a.EstimatedStart, d.start),
				EstimatedEnd:    d.date(apath+".estimated_end", a.EstimatedEnd, d.end),
				AllocatedAmount: a.AllocatedAmount,
			},
			Modules: d.modules(apath, a.Modules),
		})
	}
	return node
}
