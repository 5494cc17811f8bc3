package sensor

import (
	"testing"
	"time"
)

func TestSlotNeverWrittenIsInvalid(t *testing.T) {
	slot := NewSlot[int](time.Second)

	value, ok := slot.Latest(time.Now())
	if ok {
		t.Fatal("expected unwritten slot to be invalid")
	}
	if value != 0 {
		t.Fatalf("expected zero value, got %d", value)
	}
}

func TestSlotReturnsLatestWrite(t *testing.T) {
	slot := NewSlot[int](time.Second)
	now := time.Now()

	slot.PublishAt(1, now)
	slot.PublishAt(2, now.Add(time.Millisecond))

	value, ok := slot.Latest(now.Add(2 * time.Millisecond))
	if !ok {
		t.Fatal("expected fresh reading to be valid")
	}
	if value != 2 {
		t.Fatalf("expected latest write to win, got %d", value)
	}
}

func TestSlotExpiresAfterMaxAge(t *testing.T) {
	slot := NewSlot[int](500 * time.Millisecond)
	now := time.Now()
	slot.PublishAt(7, now)

	if _, ok := slot.Latest(now.Add(500 * time.Millisecond)); !ok {
		t.Fatal("expected reading at exactly max age to be valid")
	}
	if _, ok := slot.Latest(now.Add(501 * time.Millisecond)); ok {
		t.Fatal("expected reading past max age to be invalid")
	}
}

func TestSlotZeroMaxAgeNeverExpires(t *testing.T) {
	slot := NewSlot[int](0)
	now := time.Now()
	slot.PublishAt(7, now)

	value, ok := slot.Latest(now.Add(time.Hour))
	if !ok || value != 7 {
		t.Fatalf("expected reading to stay valid forever, got %d valid=%t", value, ok)
	}
}

func TestLatchConsumeClearsEvent(t *testing.T) {
	latch := NewLatch()

	if latch.Consume() {
		t.Fatal("expected no event before trigger")
	}

	latch.Trigger()
	if !latch.Consume() {
		t.Fatal("expected event after trigger")
	}
	if latch.Consume() {
		t.Fatal("expected event to be cleared after consume")
	}
}

func TestLatchCollapsesRepeatedTriggers(t *testing.T) {
	latch := NewLatch()

	latch.Trigger()
	latch.Trigger()
	latch.Trigger()

	if !latch.Consume() {
		t.Fatal("expected event after triggers")
	}
	if latch.Consume() {
		t.Fatal("expected repeated triggers to collapse into one event")
	}
}
