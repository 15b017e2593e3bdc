package ds

import "time"

// User utilizador do portal (admin, loja ou departamento)
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"type:varchar(255);unique;not null"`
	Email        *string `gorm:"type:varchar(255);unique"`
	PasswordHash string  `gorm:"column:password_hash;type:varchar(255);not null"`
	// Password é a coluna escrita pelo reset de password do admin; o login lê PasswordHash.
	Password  *string   `gorm:"column:password;type:varchar(255)"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Role      string    `gorm:"type:varchar(20);not null"`
	LojaID    *uint     `gorm:"index"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`

	Loja *Loja `gorm:"foreignKey:LojaID"`
}

func (User) TableName() string {
	return "users"
}
