package domain

import "time"

// StatusCounts buckets tasks by status.
type StatusCounts struct {
	Backlog    int `json:"backlog"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

// PriorityCounts buckets tasks by priority. Due counts tasks whose due
// date has passed, on top of their priority bucket.
type PriorityCounts struct {
	Low      int `json:"low"`
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Due      int `json:"due"`
}

// Analytics is the aggregate view over a user's created and assigned
// tasks.
type Analytics struct {
	Status     StatusCounts   `json:"status"`
	Priorities PriorityCounts `json:"priorities"`
}

// TallyAnalytics reduces the user's tasks into status and priority
// counters. Every assigned task counts. A created task counts only when
// its assigned_to_email field is present on the document; the empty
// string counts as present.
func TallyAnalytics(created, assigned []Task, now time.Time) Analytics {
	var a Analytics
	for i := range created {
		if created[i].AssignedToEmail != nil {
			a.add(&created[i], now)
		}
	}
	for i := range assigned {
		a.add(&assigned[i], now)
	}
	return a
}

func (a *Analytics) add(t *Task, now time.Time) {
	switch t.Status {
	case StatusBacklog:
		a.Status.Backlog++
	case StatusTodo:
		a.Status.Todo++
	case StatusInProgress:
		a.Status.InProgress++
	case StatusDone:
		a.Status.Done++
	}
	switch t.Priority {
	case PriorityLow:
		a.Priorities.Low++
	case PriorityModerate:
		a.Priorities.Moderate++
	case PriorityHigh:
		a.Priorities.High++
	}
	if t.ExpiredAt(now) {
		a.Priorities.Due++
	}
}
