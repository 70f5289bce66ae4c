package model

// Wish 心愿记录，缩略图以二进制形式内联保存
type Wish struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string `json:"name" gorm:"type:text"`
	Wish      string `json:"wish" gorm:"type:text"`
	Image     []byte `json:"-" gorm:"not null"`
	MimeType  string `json:"mime_type" gorm:"size:32;not null"`
	CreatedAt int64  `json:"created_at" gorm:"autoCreateTime"`
}

func (Wish) TableName() string {
	return "wishes"
}
