package db

import "time"

// EditorDraft 保存后台编辑器中尚未发布的草稿，Key 由会话持有。
type EditorDraft struct {
	Key       string `gorm:"primaryKey;size:36"`
	Title     string `gorm:"size:255"`
	Content   string `gorm:"type:text"`
	Tags      string `gorm:"size:255"`
	Category  string `gorm:"size:20"`
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (EditorDraft) TableName() string {
	return "editor_drafts"
}
