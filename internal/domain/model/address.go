package model

// 配送先住所（顧客に紐づく）
type Address struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64  `gorm:"not null;index" json:"customer_id"`
	StreetAddress string `gorm:"type:varchar(255);not null" json:"street_address"`
	City          string `gorm:"type:varchar(100);not null" json:"city"`
	State         string `gorm:"type:varchar(100)" json:"state"`
	PostalCode    string `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country       string `gorm:"type:varchar(100);not null" json:"country"`
	PhoneNumber   string `gorm:"type:varchar(30)" json:"phone_number"`
	IsDefault     bool   `gorm:"not null;default:false" json:"is_default"`
}
