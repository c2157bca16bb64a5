package models

import "time"

// Schedule is one class meeting slot.
type Schedule struct {
	ID        int64  `json:"id"`
	Subject   string `json:"subject"`
	Lecturer  string `json:"lecturer,omitempty"`
	Room      string `json:"room,omitempty"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Announcement is a campus-wide or class-level notice.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Classroom is a class the student is enrolled in.
type Classroom struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Lecturer string `json:"lecturer,omitempty"`
}

// Subject is one course taught inside a classroom.
type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Assignment is a task published in a classroom.
type Assignment struct {
	ID          int64      `json:"id"`
	ClassroomID int64      `json:"classroom_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Submitted   bool       `json:"submitted,omitempty"`
}

// Material is a course material attached to a subject.
type Material struct {
	ID        int64  `json:"id"`
	SubjectID int64  `json:"subject_id,omitempty"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	FileURL   string `json:"file_url,omitempty"`
}

// Submission acknowledges an uploaded assignment answer.
type Submission struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}
