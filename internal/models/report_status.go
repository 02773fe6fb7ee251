package models

import "strings"

type ReportStatus string

const (
	StatusPending    ReportStatus = "PENDING"
	StatusInProgress ReportStatus = "IN_PROGRESS"
	StatusResolved   ReportStatus = "RESOLVED"
	StatusRejected   ReportStatus = "REJECTED"
	StatusClosed     ReportStatus = "CLOSED"
)

// ReportStatuses lists every status in lifecycle order.
var ReportStatuses = []ReportStatus{
	StatusPending,
	StatusInProgress,
	StatusResolved,
	StatusRejected,
	StatusClosed,
}

var statusDisplayNames = map[ReportStatus]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
	StatusRejected:   "Rejected",
	StatusClosed:     "Closed",
}

// ParseReportStatus accepts a status name in any case.
func ParseReportStatus(s string) (ReportStatus, bool) {
	status := ReportStatus(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := statusDisplayNames[status]
	return status, ok
}

func (s ReportStatus) Valid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

func (s ReportStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

type ReportPriority string

const (
	PriorityLow    ReportPriority = "LOW"
	PriorityMedium ReportPriority = "MEDIUM"
	PriorityHigh   ReportPriority = "HIGH"
	PriorityUrgent ReportPriority = "URGENT"
)

var ReportPriorities = []ReportPriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

var priorityDisplayNames = map[ReportPriority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

func ParseReportPriority(s string) (ReportPriority, bool) {
	priority := ReportPriority(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := priorityDisplayNames[priority]
	return priority, ok
}

func (p ReportPriority) Valid() bool {
	_, ok := priorityDisplayNames[p]
	return ok
}

func (p ReportPriority) DisplayName() string {
	if name, ok := priorityDisplayNames[p]; ok {
		return name
	}
	return string(p)
}
