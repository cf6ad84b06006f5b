package quickfix

// FieldMap is an ordered tag -> value collection with support for nested
// repeating groups, the core data structure for FIX header/body/trailer
// sections. Order of insertion is preserved for serialization, mirroring
// the ordered field storage described for FIX's FieldMap in the original
// C++ engine (Fields.h / FieldMap.h).
type FieldMap struct {
	tags    []Tag
	values  map[Tag]string
	groups  map[Tag][]*FieldMap
	groupAt map[Tag]GroupTemplate
}

func newFieldMap() *FieldMap {
	return &FieldMap{
		values: make(map[Tag]string),
	}
}

func (fm *FieldMap) ensure() {
	if fm.values == nil {
		fm.values = make(map[Tag]string)
	}
}

// SetField sets tag to the wire value produced by field, preserving the
// position of the first insertion on subsequent overwrites.
func (fm *FieldMap) SetField(tag Tag, field FieldValueWriter) *FieldMap {
	fm.ensure()
	if _, exists := fm.values[tag]; !exists {
		fm.tags = append(fm.tags, tag)
	}
	fm.values[tag] = field.Write()
	return fm
}

// setRaw inserts a tag=value pair parsed directly off the wire, used by the
// codec where the value already is the wire string.
func (fm *FieldMap) setRaw(tag Tag, value string) {
	fm.ensure()
	if _, exists := fm.values[tag]; !exists {
		fm.tags = append(fm.tags, tag)
	}
	fm.values[tag] = value
}

// GetString returns the raw wire value for tag.
func (fm *FieldMap) GetString(tag Tag) (string, error) {
	if fm.values == nil {
		return "", FieldNotFound{Tag: tag}
	}
	v, ok := fm.values[tag]
	if !ok {
		return "", FieldNotFound{Tag: tag}
	}
	return v, nil
}

// GetInt returns tag parsed as a signed decimal integer.
func (fm *FieldMap) GetInt(tag Tag) (int, error) {
	s, err := fm.GetString(tag)
	if err != nil {
		return 0, err
	}
	n, err := IntConvertor{}.Read(s)
	if err != nil {
		return 0, IncorrectDataFormat{Tag: tag}
	}
	return n, nil
}

// GetBool returns tag parsed as a Y/N boolean.
func (fm *FieldMap) GetBool(tag Tag) (bool, error) {
	s, err := fm.GetString(tag)
	if err != nil {
		return false, err
	}
	b, err := BoolConvertor{}.Read(s)
	if err != nil {
		return false, IncorrectDataFormat{Tag: tag}
	}
	return b, nil
}

// Has reports whether tag is present.
func (fm *FieldMap) Has(tag Tag) bool {
	if fm.values == nil {
		return false
	}
	_, ok := fm.values[tag]
	return ok
}

// Delete removes tag, if present.
func (fm *FieldMap) Delete(tag Tag) {
	if fm.values == nil {
		return
	}
	if _, ok := fm.values[tag]; !ok {
		return
	}
	delete(fm.values, tag)
	for i, t := range fm.tags {
		if t == tag {
			fm.tags = append(fm.tags[:i], fm.tags[i+1:]...)
			break
		}
	}
}

// SetGroup attaches a repeating group's entries under its counter tag and
// sets the counter field to the entry count.
func (fm *FieldMap) SetGroup(group *RepeatingGroup) *FieldMap {
	fm.ensure()
	if fm.groups == nil {
		fm.groups = make(map[Tag][]*FieldMap)
		fm.groupAt = make(map[Tag]GroupTemplate)
	}
	fm.groups[group.tag] = group.entries
	fm.groupAt[group.tag] = group.template
	fm.SetField(group.tag, FIXInt(len(group.entries)))
	return fm
}

// GetGroup returns the entries of the repeating group counted by tag.
func (fm *FieldMap) GetGroup(tag Tag) ([]*FieldMap, error) {
	if fm.groups == nil {
		return nil, FieldNotFound{Tag: tag}
	}
	g, ok := fm.groups[tag]
	if !ok {
		return nil, FieldNotFound{Tag: tag}
	}
	return g, nil
}

func (fm *FieldMap) write(buf *[]byte) {
	fm.writeExcept(buf, nil)
}

// writeExcept writes every field in insertion order, skipping tags present
// in exclude. Used by Message.build to keep BeginString/BodyLength out of
// the body span the rest of the header is serialized into.
func (fm *FieldMap) writeExcept(buf *[]byte, exclude map[Tag]bool) {
	for _, tag := range fm.tags {
		if exclude[tag] {
			continue
		}
		writeField(buf, tag, fm.values[tag])
		if entries, ok := fm.groups[tag]; ok {
			for _, entry := range entries {
				entry.write(buf)
			}
		}
	}
}

func writeField(buf *[]byte, tag Tag, value string) {
	*buf = append(*buf, tag.String()...)
	*buf = append(*buf, '=')
	*buf = append(*buf, value...)
	*buf = append(*buf, soh)
}

const soh byte = 0x01

// Header holds the header-section fields of a Message (tags 8, 9, 35, 49,
// 56, 34, 52, ...).
type Header struct{ FieldMap }

// Body holds the application-section fields of a Message.
type Body struct{ FieldMap }

// Trailer holds the trailer-section fields of a Message (tags 93, 89, 10).
type Trailer struct{ FieldMap }
