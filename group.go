package quickfix

// GroupElement names one field of a repeating group template. The first
// element of a GroupTemplate is the delimiter quickfix uses to detect
// where one group instance ends and the next begins while parsing.
type GroupElement Tag

// GroupTemplate lists the fields that make up one instance of a repeating
// group, in wire order.
type GroupTemplate []GroupElement

// RepeatingGroup accumulates entries for a repeating group before it is
// attached to a FieldMap via SetGroup. Mirrors the
// NewRepeatingGroup(tag, GroupTemplate{...}).Add() shape used throughout
// message-builder code.
type RepeatingGroup struct {
	tag      Tag
	template GroupTemplate
	entries  []*FieldMap
}

// NewRepeatingGroup creates an empty repeating group counted by tag, whose
// entries are expected to follow the given template.
func NewRepeatingGroup(tag Tag, template GroupTemplate) *RepeatingGroup {
	return &RepeatingGroup{tag: tag, template: template}
}

// Add appends a new, empty entry to the group and returns it for field
// population.
func (g *RepeatingGroup) Add() *FieldMap {
	fm := newFieldMap()
	g.entries = append(g.entries, fm)
	return fm
}

// Len reports the number of entries currently in the group.
func (g *RepeatingGroup) Len() int { return len(g.entries) }

func (g *RepeatingGroup) delimiter() Tag {
	if len(g.template) == 0 {
		return 0
	}
	return Tag(g.template[0])
}
