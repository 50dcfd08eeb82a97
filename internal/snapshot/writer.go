package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
)

const dateLayout = "2006-01-02"

// Encode serializes tree as canonical JSON stamped with the current time and
// returns the bytes together with their revision hash.
func Encode(tree *domain.ProjectTree) ([]byte, string, error) {
	return EncodeAt(tree, time.Now().UTC())
}

// EncodeAt is Encode with an explicit generation time.
func EncodeAt(tree *domain.ProjectTree, generatedAt time.Time) ([]byte, string, error) {
	data, err := CanonicalJSON(FromTree(tree, generatedAt))
	if err != nil {
		return nil, "", err
	}
	return data, ComputeRev(data), nil
}

// CanonicalJSON produces compact JSON with HTML escaping disabled and no
// trailing newline.
func CanonicalJSON(p *Payload) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	// Remove trailing newline added by Encode
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ComputeRev computes the sha256 hash of canonical JSON bytes.
// Returns "sha256:<hex>" format.
func ComputeRev(data []byte) string {
	hash := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(hash[:])
}

// FromTree converts a tree into its payload form.
func FromTree(tree *domain.ProjectTree, generatedAt time.Time) *Payload {
	p := &Payload{
		Meta: Meta{SchemaVersion: SchemaVersion},
		Project: ProjectDoc{
			ID:             tree.Project.ID,
			Title:          tree.Project.Title,
			Acronym:        tree.Project.Acronym,
			StartDate:      formatDate(tree.Project.StartDate),
			DurationMonths: tree.Project.DurationMonths,
			NationalAgency: tree.Project.NationalAgency,
			Language:       tree.Project.Language,
		},
		Modules: moduleDocs(tree.Modules),
	}
	if !generatedAt.IsZero() {
		p.Meta.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
	}
	for _, s := range tree.Sections {
		p.Sections = append(p.Sections, SectionDoc{
			ID:         s.Section.ID,
			Title:      s.Section.Title,
			OrderIndex: s.Section.OrderIndex,
			Modules:    moduleDocs(s.Modules),
			Works:      workDocs(s.Works),
		})
	}
	p.UnassignedWorks = workDocs(tree.UnassignedWorks)
	for _, pt := range tree.Partners {
		p.Partners = append(p.Partners, PartnerDoc{
			ID:             pt.ID,
			OrganizationID: domain.StrFromPtr(pt.OrganizationID),
			Name:           pt.Name,
			Role:           string(pt.Role),
			Budget:         pt.Budget,
			Nation:         pt.Nation,
			City:           pt.City,
			Type:           pt.Type,
			Email:          pt.Email,
			Phone:          pt.Phone,
			Website:        pt.Website,
			Address:        pt.Address,
		})
	}
	return p
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func moduleDocs(mods []domain.Module) []ModuleDoc {
	var out []ModuleDoc
	for _, m := range mods {
		out = append(out, ModuleDoc{
			ID:         m.ID,
			Title:      m.Title,
			Subtitle:   m.Subtitle,
			OrderIndex: m.OrderIndex,
			Guidelines: m.Guidelines,
			CharLimit:  m.CharLimit,
			Status:     string(m.Status),
			Content:    m.Content,
		})
	}
	return out
}

func workDocs(works []domain.WorkNode) []WorkDoc {
	var out []WorkDoc
	for _, w := range works {
		doc := WorkDoc{
			ID:          w.Work.ID,
			Title:       w.Work.Title,
			Description: w.Work.Description,
			StartDate:   formatDate(w.Work.StartDate),
			EndDate:     formatDate(w.Work.EndDate),
			Budget:      w.Work.Budget,
			Modules:     moduleDocs(w.Modules),
		}
		for _, l := range w.Partners {
			doc.Partners = append(doc.Partners, LinkDoc{PartnerID: l.PartnerID, Role: l.Role, Budget: l.Budget})
		}
		for _, t := range w.Tasks {
			doc.Tasks = append(doc.Tasks, taskDoc(t))
		}
		out = append(out, doc)
	}
	return out
}

func taskDoc(t domain.TaskNode) TaskDoc {
	doc := TaskDoc{
		ID:          t.Task.ID,
		Title:       t.Task.Title,
		Description: t.Task.Description,
		StartDate:   formatDate(t.Task.StartDate),
		EndDate:     formatDate(t.Task.EndDate),
		Budget:      t.Task.Budget,
		Modules:     moduleDocs(t.Modules),
	}
	for _, l := range t.Partners {
		doc.Partners = append(doc.Partners, LinkDoc{PartnerID: l.PartnerID, Role: l.Role, Budget: l.Budget})
	}
	for _, a := range t.Activities {
		doc.Activities = append(doc.Activities, ActivityDoc{
			ID:              a.Activity.ID,
			Title:           a.Activity.Title,
			Description:     a.Activity.Description,
			EstimatedStart:  formatDate(a.Activity.EstimatedStart),
			EstimatedEnd:    formatDate(a.Activity.EstimatedEnd),
			AllocatedAmount: a.Activity.AllocatedAmount,
			Modules:         moduleDocs(a.Modules),
		})
	}
	return doc
}
