package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateSummary(t *testing.T) {
	if got := truncateSummary("short", 80); got != "short" {
		t.Errorf("short summary changed: %q", got)
	}

	long := strings.Repeat("x", 100)
	if got := truncateSummary(long, 80); got != strings.Repeat("x", 80)+"..." {
		t.Errorf("long summary = %q", got)
	}

	// Multi-byte descriptions must never be cut mid-rune
	cjk := strings.Repeat("任务说明", 30)
	got := truncateSummary(cjk, 80)
	if !utf8.ValidString(got) {
		t.Errorf("truncated summary is not valid UTF-8: %q", got)
	}
	if got != string([]rune(cjk)[:80])+"..." {
		t.Errorf("unexpected truncation: %q", got)
	}
}

func TestReminder_ConfigDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewReminderService(db, NewWorkCalendarService(), NewSyncQueue())

	if got := svc.getReminderTime(); got != "09:00" {
		t.Errorf("default reminder time = %q, expected 09:00", got)
	}
	if svc.isEnabled() {
		t.Error("reminders should be disabled without config")
	}
	if got := svc.getCountry(); got != "NONE" {
		t.Errorf("default country = %q, expected NONE", got)
	}
}

func TestReminder_DisabledIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewReminderService(db, NewWorkCalendarService(), NewSyncQueue())

	if err := svc.RunReminders(); err != nil {
		t.Errorf("disabled RunReminders should be a no-op, got %v", err)
	}
}

func TestReminder_ConfigOverrides(t *testing.T) {
	db := newTestDB(t)
	cfg := NewSystemConfigService(db)
	cfg.Set("reminder_enabled", "true")
	cfg.Set("reminder_time", "08:30")
	cfg.Set("reminder_country", "US")

	svc := NewReminderService(db, NewWorkCalendarService(), NewSyncQueue())

	if !svc.isEnabled() {
		t.Error("reminders should be enabled")
	}
	if got := svc.getReminderTime(); got != "08:30" {
		t.Errorf("reminder time = %q, expected 08:30", got)
	}
	if got := svc.getCountry(); got != "US" {
		t.Errorf("country = %q, expected US", got)
	}
}
