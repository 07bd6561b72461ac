package models

import "time"

// Lesson is a titled content unit belonging to exactly one course. Lessons are
// only ever bulk-deleted when their parent course is removed.
type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `json:"content"`
	CourseID  uint      `gorm:"not null;index" json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
}
