package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestTallyAnalyticsAssignedTasks(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	assigned := []Task{
		{Status: StatusTodo, Priority: PriorityHigh},
		{Status: StatusDone, Priority: PriorityLow},
		{Status: StatusInProgress, Priority: PriorityModerate, DueDate: &past},
	}

	a := TallyAnalytics(nil, assigned, now)

	if a.Status.Todo != 1 || a.Status.Done != 1 || a.Status.InProgress != 1 || a.Status.Backlog != 0 {
		t.Fatalf("unexpected status counts: %#v", a.Status)
	}
	if a.Priorities.High != 1 || a.Priorities.Low != 1 || a.Priorities.Moderate != 1 {
		t.Fatalf("unexpected priority counts: %#v", a.Priorities)
	}
	if a.Priorities.Due != 1 {
		t.Fatalf("expected one overdue task, got %d", a.Priorities.Due)
	}
}

func TestTallyAnalyticsDueNeedsDueDate(t *testing.T) {
	now := time.Now()
	assigned := []Task{{Status: StatusTodo, Priority: PriorityHigh}}

	a := TallyAnalytics(nil, assigned, now)
	if a.Priorities.Due != 0 {
		t.Fatalf("task without due date must not count as due, got %d", a.Priorities.Due)
	}
}

// Created tasks only count when the assigned_to_email field exists on
// the document. The empty-string default written at creation satisfies
// that, so tasks created through the API always count; only documents
// missing the field entirely are skipped.
func TestTallyAnalyticsCreatedTaskFilter(t *testing.T) {
	now := time.Now()
	created := []Task{
		{Status: StatusTodo, Priority: PriorityHigh, AssignedToEmail: strPtr("")},
		{Status: StatusTodo, Priority: PriorityHigh, AssignedToEmail: strPtr("a@b.com")},
		{Status: StatusTodo, Priority: PriorityHigh, AssignedToEmail: nil},
	}

	a := TallyAnalytics(created, nil, now)
	if a.Status.Todo != 2 || a.Priorities.High != 2 {
		t.Fatalf("expected exactly the two tasks with a defined assignee field, got %#v", a)
	}
}

func TestTallyAnalyticsCreatedAndAssignedCombined(t *testing.T) {
	now := time.Now()
	created := []Task{{Status: StatusBacklog, Priority: PriorityLow, AssignedToEmail: strPtr("")}}
	assigned := []Task{{Status: StatusBacklog, Priority: PriorityLow}}

	a := TallyAnalytics(created, assigned, now)
	if a.Status.Backlog != 2 || a.Priorities.Low != 2 {
		t.Fatalf("expected both lists to contribute, got %#v", a)
	}
}

func TestTallyAnalyticsEmpty(t *testing.T) {
	a := TallyAnalytics(nil, nil, time.Now())
	if a != (Analytics{}) {
		t.Fatalf("expected zero-initialised counters, got %#v", a)
	}
}
