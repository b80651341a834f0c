package db

import "gorm.io/gorm"

// ContentDocument 按 content id 保存一份序列化后的聚合文档。
// 每次变更都是整个文档的读改写。
type ContentDocument struct {
	gorm.Model
	ContentID string `gorm:"uniqueIndex;not null"`
	Document  string `gorm:"type:text"`
}

// TableName 指定自定义表名。
func (ContentDocument) TableName() string {
	return "content_documents"
}
