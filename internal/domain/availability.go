package domain

import "time"

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

type TimeRange struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// DayAvailability is one cached availability slot: a date and its ranges.
type DayAvailability struct {
	Date       string      `json:"date" binding:"required"`
	TimeRanges []TimeRange `json:"timeRanges" binding:"dive"`
}

// AvailabilityMap is the cached per-date view of a sitter's schedule.
type AvailabilityMap map[string][]TimeRange

// WeeklyRule is a durable recurring availability window.
type WeeklyRule struct {
	ID        int       `json:"-" db:"id"`
	SitterID  string    `json:"-" db:"sitter_id"`
	WeekID    string    `json:"weekId" db:"week_id"`
	StartDate string    `json:"startDate" db:"start_date"`
	EndDate   string    `json:"endDate" db:"end_date"`
	StartTime string    `json:"startTime" db:"start_time"`
	EndTime   string    `json:"endTime" db:"end_time"`
	IsWeekly  bool      `json:"isWeekly" db:"is_weekly"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FullDayFlag marks a sitter as fully booked for one date.
type FullDayFlag struct {
	SitterID   string    `json:"sitter_id"`
	Date       string    `json:"date"`
	SitterName string    `json:"sitter_name"`
	MarkedAt   time.Time `json:"marked_at"`
}

// Notification is one message handed to the notification sink.
type Notification struct {
	ID          string         `json:"id" db:"id"`
	RecipientID string         `json:"recipient_id" db:"recipient_id"`
	Type        string         `json:"type" db:"type"`
	Title       string         `json:"title" db:"title"`
	Message     string         `json:"message" db:"message"`
	Data        map[string]any `json:"data" db:"-"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

const NotificationSitterFull = "sitter_full"
