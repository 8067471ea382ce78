package db

import "time"

// Document 是 posts 与 projects 两个集合共享的行结构。
type Document struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"type:text"`
	Tags      string    `gorm:"size:512"`
	Date      time.Time `gorm:"index"`
	Views     int64     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Post 对应 posts 集合。
type Post struct {
	Document
}

// TableName 指定集合表名。
func (Post) TableName() string {
	return "posts"
}

// Project 对应 projects 集合。
type Project struct {
	Document
}

// TableName 指定集合表名。
func (Project) TableName() string {
	return "projects"
}
