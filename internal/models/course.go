package models

import "time"

// Course is a catalog entry owning zero or more lessons. Courses are never
// updated in place: they are created, listed, and eventually deleted together
// with their lessons.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}
