package model

// 販売者（未認証の販売者には注文できない）
type Seller struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64  `gorm:"not null;index" json:"user_id"`
	BusinessName string `gorm:"type:varchar(255);not null" json:"business_name"`
	IsVerified   bool   `gorm:"not null;default:false" json:"is_verified"`
}

type Customer struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`
}
