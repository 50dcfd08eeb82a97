package domain

// ProjectTree is the normalized shape consumed by replication. It is produced
// either from a live template project or from a decoded snapshot.
type ProjectTree struct {
	Project         Project
	Modules         []Module
	Sections        []SectionNode
	UnassignedWorks []WorkNode
	Partners        []Partner
}

type SectionNode struct {
	Section Section
	Modules []Module
	Works   []WorkNode
}

type WorkNode struct {
	Work     WorkItem
	Modules  []Module
	Partners []WorkPartner
	Tasks    []TaskNode
}

type TaskNode struct {
	Task       Task
	Modules    []Module
	Partners   []TaskPartner
	Activities []ActivityNode
}

type ActivityNode struct {
	Activity Activity
	Modules  []Module
}

// TreeCounts summarizes the shape of a tree.
type TreeCounts struct {
	Sections        int
	AssignedWorks   int
	UnassignedWorks int
	Tasks           int
	Activities      int
	Modules         int
	Partners        int
	WorkLinks       int
	TaskLinks       int
}

// Add accumulates another count into c.
func (c *TreeCounts) Add(o TreeCounts) {
	c.Sections += o.Sections
	c.AssignedWorks += o.AssignedWorks
	c.UnassignedWorks += o.UnassignedWorks
	c.Tasks += o.Tasks
	c.Activities += o.Activities
	c.Modules += o.Modules
	c.Partners += o.Partners
	c.WorkLinks += o.WorkLinks
	c.TaskLinks += o.TaskLinks
}

// Counts walks the tree and returns node, module, partner and link totals.
func (t *ProjectTree) Counts() TreeCounts {
	c := TreeCounts{
		Sections: len(t.Sections),
		Modules:  len(t.Modules),
		Partners: len(t.Partners),
	}
	for _, s := range t.Sections {
		c.Modules += len(s.Modules)
		c.AssignedWorks += len(s.Works)
		for _, w := range s.Works {
			c.Add(w.counts())
		}
	}
	c.UnassignedWorks = len(t.UnassignedWorks)
	for _, w := range t.UnassignedWorks {
		c.Add(w.counts())
	}
	return c
}

func (w *WorkNode) counts() TreeCounts {
	c := TreeCounts{
		Modules:   len(w.Modules),
		WorkLinks: len(w.Partners),
		Tasks:     len(w.Tasks),
	}
	for _, t := range w.Tasks {
		c.Modules += len(t.Modules)
		c.TaskLinks += len(t.Partners)
		c.Activities += len(t.Activities)
		for _, a := range t.Activities {
			c.Modules += len(a.Modules)
		}
	}
	return c
}
