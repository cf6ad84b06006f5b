package quickfix

import "time"

// FieldValueWriter is implemented by typed field values that know how to
// render themselves onto the wire. SetField accepts any FieldValueWriter,
// matching the call shape builder packages program against
// (fs.SetField(tag, quickfix.FIXString(value))).
type FieldValueWriter interface {
	Write() string
}

// FIXString is a field value written verbatim.
type FIXString string

func (f FIXString) Write() string { return string(f) }

// FIXInt is a field value written as a signed decimal integer.
type FIXInt int

func (f FIXInt) Write() string { return IntConvertor{}.Convert(int(f)) }

// FIXBoolean is a field value written using the Y/N convention.
type FIXBoolean bool

func (f FIXBoolean) Write() string { return BoolConvertor{}.Convert(bool(f)) }

// FIXChar is a field value written as a single character.
type FIXChar byte

func (f FIXChar) Write() string { return CharConvertor{}.Convert(byte(f)) }

// FIXUTCTimestamp is a field value written with millisecond precision.
type FIXUTCTimestamp time.Time

func (f FIXUTCTimestamp) Write() string {
	return UtcTimeStampConvertor{}.ConvertWithMillis(time.Time(f))
}

// FIXUTCDate is a field value written as YYYYMMDD.
type FIXUTCDate time.Time

func (f FIXUTCDate) Write() string { return UtcDateConvertor{}.Convert(time.Time(f)) }

// FIXFloat is a field value written as a decimal with a fixed precision.
type FIXFloat struct {
	Value     float64
	Precision int
}

func (f FIXFloat) Write() string {
	if f.Precision <= 0 {
		return DoubleConvertor{}.Convert(f.Value)
	}
	return DoubleConvertor{}.ConvertWithPrecision(f.Value, f.Precision)
}
