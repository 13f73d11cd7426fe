package employee

import "time"

// Optional columns are pointers so that blank values are stored as NULL and
// several employees without an email never collide on the unique index.
type Employee struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;size:100;not null"`
	Department *string   `gorm:"column:department;size:100"`
	Position   *string   `gorm:"column:position;size:100"`
	Email      *string   `gorm:"column:email;size:100;uniqueIndex"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
