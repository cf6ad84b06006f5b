package quickfix

import (
	"strconv"
	"strings"
)

// headerTags are the standard FIX header fields; any other tag seen before
// the trailer begins belongs to the body. Grounded on Message::isHeaderField
// in Message.h.
var headerTags = map[Tag]bool{
	8: true, 9: true, 35: true, 49: true, 56: true, 115: true, 128: true,
	90: true, 91: true, 34: true, 50: true, 142: true, 57: true, 143: true,
	116: true, 144: true, 129: true, 145: true, 43: true, 97: true, 52: true,
	122: true, 212: true, 213: true, 347: true, 369: true, 627: true,
	1128: true, 1129: true, 1130: true,
}

// trailerTags are the standard FIX trailer fields. Grounded on
// Message::isTrailerField in Message.h.
var trailerTags = map[Tag]bool{93: true, 89: true, 10: true}

func isHeaderField(tag Tag) bool  { return headerTags[tag] }
func isTrailerField(tag Tag) bool { return trailerTags[tag] }

type token struct {
	tag   Tag
	value string
}

// tokenize splits raw SOH-delimited tag=value pairs. It never throws: a
// malformed tag token is reported back via ok=false at the returned offset,
// rather than panicking, so callers can record it on the message status
// instead of aborting the whole parse.
func tokenize(raw []byte) ([]token, int, bool) {
	var tokens []token
	i := 0
	n := len(raw)
	for i < n {
		eq := indexByteFrom(raw, '=', i)
		if eq == -1 {
			return tokens, i, false
		}
		tagStr := string(raw[i:eq])
		tagNum, err := strconv.Atoi(tagStr)
		if err != nil || tagNum <= 0 {
			return tokens, i, false
		}
		sohPos := indexByteFrom(raw, soh, eq+1)
		if sohPos == -1 {
			return tokens, eq + 1, false
		}
		value := string(raw[eq+1 : sohPos])
		tokens = append(tokens, token{tag: Tag(tagNum), value: value})
		i = sohPos + 1
	}
	return tokens, i, true
}

func indexByteFrom(b []byte, c byte, from int) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// ParseMessage parses raw FIX wire bytes with no group schema: duplicate
// tags within a section overwrite rather than starting a new repeating
// group entry. Use ParseMessageWithDictionary to parse groups correctly.
func ParseMessage(raw []byte) (*Message, error) {
	return ParseMessageWithDictionary(raw, nil)
}

// ParseMessageWithDictionary parses raw FIX wire bytes into a Message,
// consulting dict (if non-nil) to recognize repeating groups by their
// NoXXX counter tag so that group entries are collected into nested
// FieldMaps instead of overwriting a single flat value.
func ParseMessageWithDictionary(raw []byte, dict *DataDictionary) (*Message, error) {
	m := &Message{rawMessage: string(raw)}
	tokens, badOffset, ok := tokenize(raw)
	if !ok {
		m.status |= statusInvalidTagFormat
		m.errorPosition = badOffset
	}

	i := 0
	inHeader := true
	for i < len(tokens) {
		tok := tokens[i]
		switch {
		case isTrailerField(tok.tag):
			inHeader = false
			m.Trailer.setRaw(tok.tag, tok.value)
			i++
		case inHeader && isHeaderField(tok.tag):
			m.Header.setRaw(tok.tag, tok.value)
			i++
		default:
			inHeader = false
			if dict != nil {
				if gdef, isGroup := dict.groupDef(tok.tag); isGroup {
					count, err := strconv.Atoi(tok.value)
					if err == nil && count > 0 {
						m.Body.setRaw(tok.tag, tok.value)
						i++
						entries, consumed := parseGroupEntries(tokens[i:], gdef, count)
						m.Body.ensure()
						if m.Body.groups == nil {
							m.Body.groups = make(map[Tag][]*FieldMap)
							m.Body.groupAt = make(map[Tag]GroupTemplate)
						}
						m.Body.groups[tok.tag] = entries
						m.Body.groupAt[tok.tag] = gdef.Template
						i += consumed
						continue
					}
				}
			}
			m.Body.setRaw(tok.tag, tok.value)
			i++
		}
	}
	return m, nil
}

// parseGroupEntries consumes tokens belonging to up to count instances of a
// repeating group, splitting on repeated occurrences of the group's
// delimiter (first template) tag. Parsing stops at the first tag that is not
// a member of the group, or at the delimiter that would start an entry
// beyond count.
func parseGroupEntries(tokens []token, gdef groupDef, count int) ([]*FieldMap, int) {
	entries := make([]*FieldMap, 0, count)
	delim := gdef.delimiter()
	i := 0
	var current *FieldMap
	for i < len(tokens) && len(entries) < count {
		tok := tokens[i]
		if !gdef.hasField(tok.tag) {
			break
		}
		if tok.tag == delim {
			if current != nil {
				entries = append(entries, current)
				current = nil
				if len(entries) == count {
					break
				}
			}
			current = newFieldMap()
		}
		if current == nil {
			current = newFieldMap()
		}
		current.setRaw(tok.tag, tok.value)
		i++
	}
	if current != nil {
		entries = append(entries, current)
	}
	return entries, i
}

// String renders the message to its wire form. If the message was produced
// by ParseMessage/ParseMessageWithDictionary, the original bytes are
// returned unchanged (zero-copy); freshly built messages are serialized
// with BodyLength and CheckSum computed as specified in section 6.1.
func (m *Message) String() string {
	if m.rawMessage != "" {
		return m.rawMessage
	}
	return m.build()
}

// envelopeTags are excluded from the header's and trailer's own field
// writes because build emits them itself: BeginString and BodyLength ahead
// of the body span that BodyLength counts, CheckSum after it.
var envelopeTags = map[Tag]bool{tagBeginString: true, tagBodyLength: true, tagCheckSum: true}

func (m *Message) build() string {
	var body []byte
	m.Header.writeExcept(&body, envelopeTags)
	m.Body.write(&body)
	m.Trailer.writeExcept(&body, envelopeTags)

	bodyLength := len(body)
	beginString, _ := m.Header.GetString(tagBeginString)
	if beginString == "" {
		beginString = "FIX.4.4"
	}

	var out []byte
	writeField(&out, tagBeginString, beginString)
	writeField(&out, tagBodyLength, PositiveIntConvertor{}.Convert(bodyLength))
	out = append(out, body...)

	checksum := 0
	for _, b := range out {
		checksum += int(b)
	}
	writeField(&out, tagCheckSum, CheckSumConvertor{}.Convert(checksum))

	return string(out)
}

// validateCheckSum verifies the CheckSum(10) trailer field of raw wire
// bytes against the sum of all preceding bytes, mod 256.
func validateCheckSum(raw []byte) bool {
	idx := strings.LastIndex(string(raw), "10=")
	if idx <= 0 || raw[idx-1] != soh {
		return false
	}
	sum := 0
	for _, b := range raw[:idx] {
		sum += int(b)
	}
	sum %= 256
	end := indexByteFrom(raw, soh, idx)
	if end == -1 {
		return false
	}
	want, err := CheckSumConvertor{}.Read(string(raw[idx+3 : end]))
	if err != nil {
		return false
	}
	return want == sum
}

// validateBodyLength verifies the BodyLength(9) header field against the
// actual number of bytes between the end of the "9=NNN\x01" field and the
// start of the CheckSum(10) trailer field.
func validateBodyLength(raw []byte) bool {
	if !strings.HasPrefix(string(raw), "8=") {
		return false
	}
	bodyLengthStart := indexByteFrom(raw, soh, 0)
	if bodyLengthStart == -1 {
		return false
	}
	bodyLengthStart++
	if bodyLengthStart >= len(raw) || !strings.HasPrefix(string(raw[bodyLengthStart:]), "9=") {
		return false
	}
	bodyStart := indexByteFrom(raw, soh, bodyLengthStart)
	if bodyStart == -1 {
		return false
	}
	declared, err := PositiveIntConvertor{}.Read(string(raw[bodyLengthStart+2 : bodyStart]))
	if err != nil {
		return false
	}
	bodyStart++

	checkSumIdx := strings.LastIndex(string(raw), "10=")
	if checkSumIdx <= 0 || raw[checkSumIdx-1] != soh {
		return false
	}

	return declared == checkSumIdx-bodyStart
}
