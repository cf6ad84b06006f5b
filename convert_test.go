package quickfix

import (
	"testing"
	"time"
)

// Tests for field converter round-trip behavior and malformed-input rejection.

func TestIntConvertor_RoundTrip(t *testing.T) {
	tests := []int{0, 1, -1, 42, -999999}
	for _, v := range tests {
		s := IntConvertor{}.Convert(v)
		got, err := IntConvertor{}.Read(s)
		if err != nil {
			t.Fatalf("Read(%q) returned error: %v", s, err)
		}
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestIntConvertor_RejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "abc", "1.5", " 1"} {
		if _, err := (IntConvertor{}).Read(s); err == nil {
			t.Errorf("Read(%q): expected error, got none", s)
		}
	}
}

func TestPositiveIntConvertor_RejectsNonPositive(t *testing.T) {
	for _, s := range []string{"0", "-1", "-100"} {
		if _, err := (PositiveIntConvertor{}).Read(s); err == nil {
			t.Errorf("Read(%q): expected error for non-positive value", s)
		}
	}
}

// TestCheckSumConvertor_AlwaysThreeDigits verifies every value in the legal
// 0-255 range renders as exactly three zero-padded decimal digits.
func TestCheckSumConvertor_AlwaysThreeDigits(t *testing.T) {
	for v := 0; v <= 255; v++ {
		s := CheckSumConvertor{}.Convert(v)
		if len(s) != 3 {
			t.Fatalf("Convert(%d) = %q, want length 3", v, s)
		}
		got, err := CheckSumConvertor{}.Read(s)
		if err != nil || got != v {
			t.Errorf("round trip %d: got %d, err %v", v, got, err)
		}
	}
}

func TestCheckSumConvertor_WrapsModulo256(t *testing.T) {
	if got := (CheckSumConvertor{}).Convert(256); got != "000" {
		t.Errorf("Convert(256) = %q, want 000", got)
	}
	if got := (CheckSumConvertor{}).Convert(257); got != "001" {
		t.Errorf("Convert(257) = %q, want 001", got)
	}
}

func TestCheckSumConvertor_RejectsOutOfRange(t *testing.T) {
	for _, s := range []string{"256", "999", "-1", "ab", "1"} {
		if _, err := (CheckSumConvertor{}).Read(s); err == nil {
			t.Errorf("Read(%q): expected error", s)
		}
	}
}

func TestCharConvertor_RoundTrip(t *testing.T) {
	for v := byte(0x21); v <= 0x7E; v++ {
		s := CharConvertor{}.Convert(v)
		got, err := CharConvertor{}.Read(s)
		if err != nil || got != v {
			t.Errorf("round trip %q: got %q, err %v", v, got, err)
		}
	}
}

func TestCharConvertor_RejectsNonPrintable(t *testing.T) {
	for _, v := range []byte{0x20, 0x7F, 0x01} {
		if _, err := (CharConvertor{}).Read(string(v)); err == nil {
			t.Errorf("Read(%q): expected error for non-printable byte", v)
		}
	}
}

func TestBoolConvertor_RoundTrip(t *testing.T) {
	if got := (BoolConvertor{}).Convert(true); got != "Y" {
		t.Errorf("Convert(true) = %q, want Y", got)
	}
	if got := (BoolConvertor{}).Convert(false); got != "N" {
		t.Errorf("Convert(false) = %q, want N", got)
	}
	if v, err := (BoolConvertor{}).Read("Y"); err != nil || !v {
		t.Errorf("Read(Y) = %v, %v", v, err)
	}
	if v, err := (BoolConvertor{}).Read("N"); err != nil || v {
		t.Errorf("Read(N) = %v, %v", v, err)
	}
	if _, err := (BoolConvertor{}).Read("y"); err == nil {
		t.Error("Read(y): expected error, FIX booleans are case-sensitive")
	}
}

func TestDoubleConvertor_PrecisionCapsAtMax(t *testing.T) {
	s := DoubleConvertor{}.ConvertWithPrecision(1.0/3.0, 30)
	frac := s[len("0."):]
	if len(frac) != 15 {
		t.Errorf("ConvertWithPrecision capped at 30: got %d fractional digits, want 15", len(frac))
	}
}

func TestDoubleConvertor_RejectsEmpty(t *testing.T) {
	if _, err := (DoubleConvertor{}).Read(""); err == nil {
		t.Error("Read(\"\"): expected error")
	}
}

func TestUtcTimeStampConvertor_SecondsAndMillis(t *testing.T) {
	ref := time.Date(2025, 6, 15, 13, 45, 30, 0, time.UTC)

	sec := UtcTimeStampConvertor{}.Convert(ref)
	if len(sec) != 17 {
		t.Fatalf("seconds form length = %d, want 17 (%q)", len(sec), sec)
	}
	got, err := UtcTimeStampConvertor{}.Read(sec)
	if err != nil || !got.Equal(ref) {
		t.Errorf("round trip seconds form: got %v, err %v", got, err)
	}

	msec := UtcTimeStampConvertor{}.ConvertWithMillis(ref)
	if len(msec) != 21 {
		t.Fatalf("millis form length = %d, want 21 (%q)", len(msec), msec)
	}
	got, err = UtcTimeStampConvertor{}.Read(msec)
	if err != nil || !got.Equal(ref) {
		t.Errorf("round trip millis form: got %v, err %v", got, err)
	}
}

func TestUtcTimeStampConvertor_RejectsWrongLength(t *testing.T) {
	for _, s := range []string{"", "20250615-13:45:30.0", "2025061513:45:30"} {
		if _, err := (UtcTimeStampConvertor{}).Read(s); err == nil {
			t.Errorf("Read(%q): expected error", s)
		}
	}
}

func TestUtcDateConvertor_RoundTrip(t *testing.T) {
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	s := UtcDateConvertor{}.Convert(ref)
	if s != "20250615" {
		t.Fatalf("Convert = %q, want 20250615", s)
	}
	got, err := UtcDateConvertor{}.Read(s)
	if err != nil || !got.Equal(ref) {
		t.Errorf("round trip: got %v, err %v", got, err)
	}
}

func TestUtcTimeOnlyConvertor_SecondsAndMillis(t *testing.T) {
	if _, err := (UtcTimeOnlyConvertor{}).Read("13:45:30"); err != nil {
		t.Errorf("Read(seconds form): %v", err)
	}
	if _, err := (UtcTimeOnlyConvertor{}).Read("13:45:30.500"); err != nil {
		t.Errorf("Read(millis form): %v", err)
	}
	if _, err := (UtcTimeOnlyConvertor{}).Read("13:45"); err == nil {
		t.Error("Read(short form): expected error")
	}
}
