package quickfix

import (
	"encoding/xml"
	"os"
)

// DataDictionary describes the fields, messages and repeating groups legal
// for one FIX version, loaded from a QuickFIX-style XML data dictionary
// file. Standard library encoding/xml is used here deliberately: none of
// the XML-handling libraries surfaced across the retrieved examples target
// this narrow "parse a schema document into typed Go structs" shape (the
// one XSD-schema-validation library in the pack solves a different, heavier
// problem - validating XML instances against an XSD, not decoding a small
// bespoke dictionary format) - see DESIGN.md.
type DataDictionary struct {
	Version string

	fields   map[Tag]fieldDef
	messages map[string]messageDef
	groups   map[Tag]groupDef

	// CheckFieldsOutOfOrder is carried with the dictionary but Validate
	// does not read it; field order is not checked by Validate.
	CheckFieldsOutOfOrder bool
	// AllowUnknownFields turns off Validate's unknown-tag check, so a body
	// tag absent from the dictionary is accepted whatever its number.
	// Custom tags in the user range (5000-9999) are accepted either way.
	AllowUnknownFields bool
}

type fieldDef struct {
	Tag    Tag
	Name   string
	Type   string
	Values map[string]bool
}

type messageDef struct {
	MsgType       string
	Name          string
	RequiredTags  []Tag
	FieldOrder    []Tag
}

type groupDef struct {
	Tag      Tag
	Template GroupTemplate
	fields   map[Tag]bool
}

func (g groupDef) delimiter() Tag { return g.Template.delimiter() }

func (t GroupTemplate) delimiter() Tag {
	if len(t) == 0 {
		return 0
	}
	return Tag(t[0])
}

func (g groupDef) hasField(tag Tag) bool { return g.fields[tag] }

func (d *DataDictionary) groupDef(tag Tag) (groupDef, bool) {
	if d == nil || d.groups == nil {
		return groupDef{}, false
	}
	gd, ok := d.groups[tag]
	return gd, ok
}

// --- XML schema, grounded on QuickFIX's <fix>/<fields>/<messages> layout ---

type xmlDictionary struct {
	XMLName xml.Name     `xml:"fix"`
	Fields  xmlFieldList `xml:"fields"`
	Messages []xmlMessage `xml:"messages>message"`
}

type xmlFieldList struct {
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Number int        `xml:"number,attr"`
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Values []xmlValue `xml:"value"`
}

type xmlValue struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

type xmlMessage struct {
	Name    string      `xml:"name,attr"`
	MsgType string      `xml:"msgtype,attr"`
	Fields  []xmlMsgField `xml:"field"`
	Groups  []xmlGroup  `xml:"group"`
}

type xmlMsgField struct {
	Name     string `xml:"name,attr"`
	Required string `xml:"required,attr"`
}

type xmlGroup struct {
	Name     string        `xml:"name,attr"`
	Required string        `xml:"required,attr"`
	Fields   []xmlMsgField `xml:"field"`
}

// LoadDataDictionary reads a QuickFIX-style data dictionary XML file from
// disk.
func LoadDataDictionary(path string) (*DataDictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ConfigError{Reason: err.Error()}
	}
	return ParseDataDictionary(data)
}

// ParseDataDictionary decodes a QuickFIX-style data dictionary document
// already read into memory.
func ParseDataDictionary(data []byte) (*DataDictionary, error) {
	var doc xmlDictionary
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, ConfigError{Reason: err.Error()}
	}

	dict := &DataDictionary{
		fields:   make(map[Tag]fieldDef),
		messages: make(map[string]messageDef),
		groups:   make(map[Tag]groupDef),
	}

	nameToTag := make(map[string]Tag)
	for _, f := range doc.Fields.Fields {
		fd := fieldDef{Tag: Tag(f.Number), Name: f.Name, Type: f.Type, Values: make(map[string]bool)}
		for _, v := range f.Values {
			fd.Values[v.Enum] = true
		}
		dict.fields[fd.Tag] = fd
		nameToTag[f.Name] = fd.Tag
	}

	for _, msg := range doc.Messages {
		md := messageDef{MsgType: msg.MsgType, Name: msg.Name}
		for _, f := range msg.Fields {
			tag, ok := nameToTag[f.Name]
			if !ok {
				continue
			}
			md.FieldOrder = append(md.FieldOrder, tag)
			if f.Required == "Y" {
				md.RequiredTags = append(md.RequiredTags, tag)
			}
		}
		for _, g := range msg.Groups {
			counterTag, ok := nameToTag[g.Name]
			if !ok {
				continue
			}
			gd := groupDef{Tag: counterTag, fields: make(map[Tag]bool)}
			for _, f := range g.Fields {
				tag, ok := nameToTag[f.Name]
				if !ok {
					continue
				}
				gd.Template = append(gd.Template, GroupElement(tag))
				gd.fields[tag] = true
			}
			dict.groups[counterTag] = gd
		}
		dict.messages[msg.MsgType] = md
	}

	return dict, nil
}

// Validate checks an inbound or outbound message against the dictionary:
// every required field of its MsgType is present, and every enumerated
// body field of the message definition carries a value from its declared
// value set. Values are not checked against their declared field type
// (INT, CHAR, ...). Custom tags in the 5000-9999 range are accepted even when
// AllowUnknownFields is false, matching FIXT.1.1's vendor extension
// convention; any other tag absent from the dictionary is rejected in
// strict mode.
func (d *DataDictionary) Validate(m *Message) error {
	msgType, err := m.MsgType()
	if err != nil {
		return err
	}
	md, ok := d.messages[msgType]
	if !ok {
		return UnsupportedMessageType{}
	}
	for _, tag := range md.RequiredTags {
		if !m.Body.Has(tag) && !m.Header.Has(tag) {
			return FieldNotFound{Tag: tag}
		}
	}
	for _, tag := range md.FieldOrder {
		fd, ok := d.fields[tag]
		if !ok || len(fd.Values) == 0 {
			continue
		}
		v, err := m.Body.GetString(tag)
		if err != nil {
			continue
		}
		if !fd.Values[v] {
			return IncorrectTagValue{Tag: tag}
		}
	}
	if !d.AllowUnknownFields {
		for _, tag := range m.Body.tags {
			if isCustomTagRange(tag) {
				continue
			}
			if _, ok := d.fields[tag]; !ok {
				return TagNotDefined{Tag: tag}
			}
		}
	}
	return nil
}

func isCustomTagRange(tag Tag) bool { return tag >= 5000 && tag <= 9999 }

// DataDictionaryProvider selects the right DataDictionary for a message,
// keyed by BeginString for FIX.4.x transports and by ApplVerID(1128) for
// FIXT.1.1, where the wire BeginString is always "FIXT.1.1" and the actual
// application version travels in the header's ApplVerID field instead.
// Mirrors DataDictionaryProvider.cpp's two lookup tables, replacing its
// process-global singleton with an explicit value passed into Session.
type DataDictionaryProvider struct {
	transport map[string]*DataDictionary
	app       map[string]*DataDictionary
}

// NewDataDictionaryProvider returns an empty provider ready to have
// dictionaries registered via AddTransportDataDictionary/
// AddApplicationDataDictionary.
func NewDataDictionaryProvider() *DataDictionaryProvider {
	return &DataDictionaryProvider{
		transport: make(map[string]*DataDictionary),
		app:       make(map[string]*DataDictionary),
	}
}

// AddTransportDataDictionary registers d as the dictionary for messages on
// the given wire BeginString (FIX.4.0 through FIX.4.4, or FIXT.1.1 itself
// for session-level fields common to every ApplVerID).
func (p *DataDictionaryProvider) AddTransportDataDictionary(beginString string, d *DataDictionary) {
	p.transport[beginString] = d
}

// AddApplicationDataDictionary registers d as the dictionary for FIXT.1.1
// messages whose ApplVerID (tag 1128) equals applVerID.
func (p *DataDictionaryProvider) AddApplicationDataDictionary(applVerID string, d *DataDictionary) {
	p.app[applVerID] = d
}

// SessionDataDictionary returns the transport-level dictionary for
// beginString.
func (p *DataDictionaryProvider) SessionDataDictionary(beginString string) (*DataDictionary, bool) {
	d, ok := p.transport[beginString]
	return d, ok
}

// ApplicationDataDictionary returns the dictionary that should validate a
// message's application-level fields: under FIXT.1.1 this is selected by
// applVerID (defaulting to "G", FIX.5.0, when the message carries no
// explicit ApplVerID), and under FIX.4.x it is simply the transport
// dictionary for beginString.
func (p *DataDictionaryProvider) ApplicationDataDictionary(beginString, applVerID string) (*DataDictionary, bool) {
	if beginString != "FIXT.1.1" {
		return p.SessionDataDictionary(beginString)
	}
	if applVerID == "" {
		applVerID = "G" // FIX.5.0, the default ApplVerID when none is negotiated
	}
	d, ok := p.app[applVerID]
	return d, ok
}
