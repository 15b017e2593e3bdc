package ds

import "time"

// Loja loja cliente do portal
type Loja struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Address   *string   `gorm:"type:text"`
	Phone     *string   `gorm:"type:varchar(50)"`
	Email     *string   `gorm:"type:varchar(255)"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Loja) TableName() string {
	return "lojas"
}
