package models

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task categories and priorities. Unknown values are rejected at the
// service layer; blanks default.
const (
	CategoryGeneral  = "General"
	CategoryWork     = "Work"
	CategoryPersonal = "Personal"
	CategoryUrgent   = "Urgent"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// TimePattern matches a 24-hour HH:MM time-of-day string.
var TimePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryGeneral, CategoryWork, CategoryPersonal, CategoryUrgent:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is a single task document stored in MongoDB. Every query
// against the collection is filtered by UserID; a task is never
// visible outside its owner.
type Todo struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	UserID    string             `json:"user_id"    bson:"user_id"`
	Task      string             `json:"task"       bson:"task"`
	Time      string             `json:"time"       bson:"time"`
	Category  string             `json:"category"   bson:"category"`
	Priority  string             `json:"priority"   bson:"priority"`
	Completed bool               `json:"completed"  bson:"completed"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// TodoInput carries the caller-supplied fields for create and edit.
type TodoInput struct {
	Task     string `json:"task"`
	Time     string `json:"time"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}
