package repository

import (
	"vidros-backend/internal/app/ds"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate cria/atualiza o esquema.
// Bases antigas sem username recebem a coluna preenchida a partir do email antes do AutoMigrate
// a tornar obrigatória e única.
func Migrate(db *gorm.DB) error {
	m := db.Migrator()

	if m.HasTable(&ds.User{}) && !m.HasColumn(&ds.User{}, "username") {
		logrus.Info("adding users.username")
		if err := db.Exec(`ALTER TABLE users ADD COLUMN username VARCHAR(255)`).Error; err != nil {
			return err
		}
		if err := db.Exec(`UPDATE users SET username = SPLIT_PART(email, '@', 1) WHERE username IS NULL`).Error; err != nil {
			return err
		}
	}

	return db.AutoMigrate(
		&ds.Loja{},
		&ds.User{},
		&ds.Pedido{},
		&ds.PedidoFoto{},
		&ds.PedidoUpdate{},
	)
}
