package quickfix

import "testing"

// Tests for MemoryStore's MessageStore contract: sequence number tracking,
// message retention for resend, and the session-day Reset behavior.

func TestMemoryStore_StartsAtSeqNumOne(t *testing.T) {
	store := NewMemoryStore()
	sender, err := store.NextSenderMsgSeqNum()
	if err != nil || sender != 1 {
		t.Errorf("NextSenderMsgSeqNum = %d, %v, want 1, nil", sender, err)
	}
	target, err := store.NextTargetMsgSeqNum()
	if err != nil || target != 1 {
		t.Errorf("NextTargetMsgSeqNum = %d, %v, want 1, nil", target, err)
	}
}

func TestMemoryStore_IncrAdvancesIndependently(t *testing.T) {
	store := NewMemoryStore()
	store.IncrNextSenderMsgSeqNum()
	store.IncrNextSenderMsgSeqNum()
	store.IncrNextTargetMsgSeqNum()

	sender, _ := store.NextSenderMsgSeqNum()
	target, _ := store.NextTargetMsgSeqNum()
	if sender != 3 {
		t.Errorf("sender seq = %d, want 3", sender)
	}
	if target != 2 {
		t.Errorf("target seq = %d, want 2", target)
	}
}

func TestMemoryStore_SetAndGetRange(t *testing.T) {
	store := NewMemoryStore()
	store.Set(1, "msg-1")
	store.Set(2, "msg-2")
	store.Set(3, "msg-3")

	got, err := store.Get(2, 3)
	if err != nil {
		t.Fatalf("Get(2,3): %v", err)
	}
	want := []string{"msg-2", "msg-3"}
	if len(got) != len(want) {
		t.Fatalf("Get(2,3) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Get(2,3)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMemoryStore_GetSkipsMissingSequenceNumbers(t *testing.T) {
	store := NewMemoryStore()
	store.Set(1, "msg-1")
	store.Set(3, "msg-3")

	got, err := store.Get(1, 3)
	if err != nil {
		t.Fatalf("Get(1,3): %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Get(1,3) = %v, want 2 entries (gap at 2 skipped)", got)
	}
}

func TestMemoryStore_ResetClearsMessagesAndSeqNums(t *testing.T) {
	store := NewMemoryStore()
	store.Set(1, "msg-1")
	store.IncrNextSenderMsgSeqNum()
	store.IncrNextTargetMsgSeqNum()

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	sender, _ := store.NextSenderMsgSeqNum()
	target, _ := store.NextTargetMsgSeqNum()
	if sender != 1 || target != 1 {
		t.Errorf("after Reset: sender=%d target=%d, want 1, 1", sender, target)
	}
	got, _ := store.Get(1, 1)
	if len(got) != 0 {
		t.Errorf("after Reset: Get(1,1) = %v, want empty", got)
	}
}

func TestMemoryStoreFactory_CreatesIndependentStores(t *testing.T) {
	fac := MemoryStoreFactory{}
	a, err := fac.Create(SessionID{SenderCompID: "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := fac.Create(SessionID{SenderCompID: "B"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	a.IncrNextSenderMsgSeqNum()
	aSeq, _ := a.NextSenderMsgSeqNum()
	bSeq, _ := b.NextSenderMsgSeqNum()
	if aSeq == bSeq {
		t.Error("stores created by the same factory share sequence state")
	}
}
