// internal/model/model.go
package model

// FallbackGroupName is the reserved group that receives students whose
// declared supervisor email matches no known teacher email. Mismatches for
// individual students are tolerated here; they are not an error.
const FallbackGroupName = "unassigned"

// ChallengeRate is the per-student registration tier a team bills at.
type ChallengeRate int

const (
	RateStandard ChallengeRate = iota
	RateMultiChallenge
)

func (r ChallengeRate) String() string {
	if r == RateMultiChallenge {
		return "multi-challenge"
	}
	return "standard"
}

// Address is the mailing block copied verbatim from the teacher-roster row
// that introduced the group. Unset fields stay empty.
type Address struct {
	Contact    string
	Street     string
	City       string
	Province   string
	PostalCode string
	Country    string
}

// Empty reports whether no postal field was provided. Groups with an empty
// address are never billed.
func (a Address) Empty() bool {
	return a.Street == "" && a.City == "" && a.Province == "" && a.PostalCode == "" && a.Country == ""
}

// Member is one supervisor or student attached to a group. Names are unique
// per group only; the same name in two groups is two members.
type Member struct {
	Name    string
	Lunch   string // raw form answer, possibly empty
	Apparel string // raw form answer, possibly empty

	Student bool
	// Student-only fields
	Team   string
	Gender string
	Grade  int // 1-12, 0 when unset
}

// RateSummary accumulates the per-group counters that drive billing.
// Each counter is incremented as members are classified during graph
// construction and read-only afterward.
type RateSummary struct {
	Challenge      ChallengeRate
	FullLunches    int // members at the two-slice lunch rate
	HalfLunches    int // members at the one-slice lunch rate
	FemaleStudents int
	HighSchool     int // students in grades 9-12
	Students       int
}

// LunchQuantity is the group's slice-equivalent total for the meal line item.
func (r RateSummary) LunchQuantity() int {
	return 2*r.FullLunches + r.HalfLunches
}

// Group is one school or community entry, the top-level aggregation unit.
type Group struct {
	Name    string
	Emails  []string // normalized supervisor emails, insertion order
	Address Address
	Rates   RateSummary

	memberOrder []string
	members     map[string]*Member
}

func newGroup(name string) *Group {
	return &Group{
		Name:    name,
		members: make(map[string]*Member),
	}
}

// HasEmail reports whether the group's supervisors include the normalized email.
func (g *Group) HasEmail(normalized string) bool {
	for _, e := range g.Emails {
		if e == normalized {
			return true
		}
	}
	return false
}

// Members returns the group's members in insertion order.
func (g *Group) Members() []*Member {
	out := make([]*Member, 0, len(g.memberOrder))
	for _, name := range g.memberOrder {
		out = append(out, g.members[name])
	}
	return out
}

// Member returns the named member, or nil.
func (g *Group) Member(name string) *Member {
	return g.members[name]
}

// put attaches a member. Duplicate names within a group are last-write-wins:
// the new record replaces the old one in place, keeping its original position.
func (g *Group) put(m *Member) (replaced bool) {
	if _, ok := g.members[m.Name]; !ok {
		g.memberOrder = append(g.memberOrder, m.Name)
	} else {
		replaced = true
	}
	g.members[m.Name] = m
	return replaced
}

// Graph is the normalized model of one full run: every group in teacher-roster
// insertion order, plus the reserved fallback group.
type Graph struct {
	order    []string
	groups   map[string]*Group
	fallback *Group
}

func newGraph() *Graph {
	return &Graph{
		groups:   make(map[string]*Group),
		fallback: newGroup(FallbackGroupName),
	}
}

// addGroup registers a group. A repeated name keeps its original position but
// is replaced wholesale (last-row-wins, not merged).
func (m *Graph) addGroup(g *Group) (replaced bool) {
	if _, ok := m.groups[g.Name]; !ok {
		m.order = append(m.order, g.Name)
	} else {
		replaced = true
	}
	m.groups[g.Name] = g
	return replaced
}

// Group returns the named group, or nil. The fallback group is addressable by
// its reserved name.
func (m *Graph) Group(name string) *Group {
	if name == FallbackGroupName {
		return m.fallback
	}
	return m.groups[name]
}

// Fallback returns the reserved catch-all group.
func (m *Graph) Fallback() *Group {
	return m.fallback
}

// Groups returns every group in insertion order. The fallback group is
// appended last, and only once it holds members.
func (m *Graph) Groups() []*Group {
	out := make([]*Group, 0, len(m.order)+1)
	for _, name := range m.order {
		out = append(out, m.groups[name])
	}
	if len(m.fallback.memberOrder) > 0 {
		out = append(out, m.fallback)
	}
	return out
}

// resolve finds the owning group for a normalized email: the first group, in
// insertion order, listing it. Students with no match land in the fallback group.
func (m *Graph) resolve(normalizedEmail string) *Group {
	for _, name := range m.order {
		if m.groups[name].HasEmail(normalizedEmail) {
			return m.groups[name]
		}
	}
	return m.fallback
}
