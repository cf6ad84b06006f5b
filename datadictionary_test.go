package quickfix

import "testing"

const sampleDictionaryXML = `<fix major="4" minor="4">
  <fields>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="49" name="SenderCompID" type="STRING"/>
    <field number="56" name="TargetCompID" type="STRING"/>
    <field number="54" name="Side" type="CHAR">
      <value enum="1" description="BUY"/>
      <value enum="2" description="SELL"/>
    </field>
    <field number="11" name="ClOrdID" type="STRING"/>
  </fields>
  <messages>
    <message name="NewOrderSingle" msgtype="D">
      <field name="ClOrdID" required="Y"/>
      <field name="Side" required="Y"/>
    </message>
  </messages>
</fix>`

func TestParseDataDictionary_LoadsFieldsAndMessages(t *testing.T) {
	dict, err := ParseDataDictionary([]byte(sampleDictionaryXML))
	if err != nil {
		t.Fatalf("ParseDataDictionary: %v", err)
	}
	if _, ok := dict.fields[Tag(54)]; !ok {
		t.Fatal("field 54 (Side) not loaded")
	}
	md, ok := dict.messages["D"]
	if !ok {
		t.Fatal("message D (NewOrderSingle) not loaded")
	}
	if len(md.RequiredTags) != 2 {
		t.Fatalf("RequiredTags = %v, want 2 entries", md.RequiredTags)
	}
}

func TestValidate_RejectsMissingRequiredField(t *testing.T) {
	dict, err := ParseDataDictionary([]byte(sampleDictionaryXML))
	if err != nil {
		t.Fatalf("ParseDataDictionary: %v", err)
	}
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString("D"))
	msg.Body.SetField(Tag(11), FIXString("order-1")) // Side (54) missing

	err = dict.Validate(msg)
	if err == nil {
		t.Fatal("Validate: expected FieldNotFound for missing Side")
	}
	if _, ok := err.(FieldNotFound); !ok {
		t.Errorf("Validate error = %T, want FieldNotFound", err)
	}
}

func TestValidate_RejectsValueOutsideEnum(t *testing.T) {
	dict, err := ParseDataDictionary([]byte(sampleDictionaryXML))
	if err != nil {
		t.Fatalf("ParseDataDictionary: %v", err)
	}
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString("D"))
	msg.Body.SetField(Tag(11), FIXString("order-1"))
	msg.Body.SetField(Tag(54), FIXString("9")) // not a legal Side value

	err = dict.Validate(msg)
	if _, ok := err.(IncorrectTagValue); !ok {
		t.Errorf("Validate error = %v (%T), want IncorrectTagValue", err, err)
	}
}

func TestValidate_RejectsUnknownTagInStrictMode(t *testing.T) {
	dict, err := ParseDataDictionary([]byte(sampleDictionaryXML))
	if err != nil {
		t.Fatalf("ParseDataDictionary: %v", err)
	}
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString("D"))
	msg.Body.SetField(Tag(11), FIXString("order-1"))
	msg.Body.SetField(Tag(54), FIXString("1"))
	msg.Body.SetField(Tag(999), FIXString("surprise"))

	err = dict.Validate(msg)
	if _, ok := err.(TagNotDefined); !ok {
		t.Errorf("Validate error = %v (%T), want TagNotDefined", err, err)
	}
}

func TestValidate_AllowsCustomTagRange(t *testing.T) {
	dict, err := ParseDataDictionary([]byte(sampleDictionaryXML))
	if err != nil {
		t.Fatalf("ParseDataDictionary: %v", err)
	}
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString("D"))
	msg.Body.SetField(Tag(11), FIXString("order-1"))
	msg.Body.SetField(Tag(54), FIXString("1"))
	msg.Body.SetField(Tag(5001), FIXString("vendor-extension"))

	if err := dict.Validate(msg); err != nil {
		t.Errorf("Validate rejected a custom-range tag: %v", err)
	}
}

func TestValidate_AllowUnknownFieldsBypassesStrictCheck(t *testing.T) {
	dict, err := ParseDataDictionary([]byte(sampleDictionaryXML))
	if err != nil {
		t.Fatalf("ParseDataDictionary: %v", err)
	}
	dict.AllowUnknownFields = true
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString("D"))
	msg.Body.SetField(Tag(11), FIXString("order-1"))
	msg.Body.SetField(Tag(54), FIXString("1"))
	msg.Body.SetField(Tag(999), FIXString("surprise"))

	if err := dict.Validate(msg); err != nil {
		t.Errorf("Validate rejected an unknown tag with AllowUnknownFields set: %v", err)
	}
}

func TestDataDictionaryProvider_SelectsByApplVerIDUnderFIXT(t *testing.T) {
	p := NewDataDictionaryProvider()
	fix44 := &DataDictionary{Version: "FIX.4.4"}
	fix50 := &DataDictionary{Version: "FIX.5.0"}
	p.AddTransportDataDictionary("FIXT.1.1", &DataDictionary{Version: "FIXT.1.1"})
	p.AddApplicationDataDictionary("F", fix44)
	p.AddApplicationDataDictionary("G", fix50)

	got, ok := p.ApplicationDataDictionary("FIXT.1.1", "F")
	if !ok || got != fix44 {
		t.Fatalf("ApplicationDataDictionary(FIXT.1.1, F) = %v, %v, want fix44", got, ok)
	}

	got, ok = p.ApplicationDataDictionary("FIXT.1.1", "")
	if !ok || got != fix50 {
		t.Fatalf("ApplicationDataDictionary(FIXT.1.1, \"\") = %v, %v, want default fix50", got, ok)
	}
}

func TestDataDictionaryProvider_SelectsByBeginStringForFIX4x(t *testing.T) {
	p := NewDataDictionaryProvider()
	fix44 := &DataDictionary{Version: "FIX.4.4"}
	p.AddTransportDataDictionary("FIX.4.4", fix44)

	got, ok := p.ApplicationDataDictionary("FIX.4.4", "")
	if !ok || got != fix44 {
		t.Fatalf("ApplicationDataDictionary(FIX.4.4, \"\") = %v, %v, want fix44", got, ok)
	}
}

func TestToBeginStringCollapsesFIX50Variants(t *testing.T) {
	for _, applVerID := range []string{"G", "H", "J"} {
		if got := toBeginString(applVerID); got != "FIX.5.0" {
			t.Errorf("toBeginString(%q) = %q, want FIX.5.0", applVerID, got)
		}
	}
}

func TestToApplVerIDRoundTripsFIX4x(t *testing.T) {
	cases := map[string]string{
		"FIX.4.0": "6",
		"FIX.4.2": "8",
		"FIX.4.4": "F",
	}
	for beginString, want := range cases {
		if got := toApplVerID(beginString); got != want {
			t.Errorf("toApplVerID(%q) = %q, want %q", beginString, got, want)
		}
	}
}
