package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPendente  = "pendente"
	StatusCancelado = "cancelado"
	StatusConcluido = "concluido"

	UpdateTipoGeral = "geral"
)

// Pedido pedido de reparação/substituição de vidro.
// Status é texto livre: não há tabela de transições.
type Pedido struct {
	ID                     uint             `gorm:"primaryKey"`
	LojaID                 uint             `gorm:"not null;index"`
	UserID                 uint             `gorm:"not null;index"`
	Matricula              string           `gorm:"type:varchar(20);not null"`
	MarcaCarro             string           `gorm:"type:varchar(100);not null"`
	ModeloCarro            string           `gorm:"type:varchar(100);not null"`
	AnoCarro               *string          `gorm:"type:varchar(10)"`
	TipoVidro              string           `gorm:"type:varchar(100);not null"`
	Descricao              *string          `gorm:"type:text"`
	Status                 string           `gorm:"type:varchar(50);not null;default:'pendente';index"`
	Valor                  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Custo                  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Fornecedor             *string          `gorm:"type:varchar(255)"`
	Notas                  *string          `gorm:"type:text"`
	Disponibilidade        *string          `gorm:"type:text"`
	UltimaVisualizacaoLoja *time.Time
	UltimaVisualizacaoDept *time.Time
	CreatedAt              time.Time `gorm:"not null;index"`

	Loja *Loja `gorm:"foreignKey:LojaID"`
	User *User `gorm:"foreignKey:UserID"`
}

func (Pedido) TableName() string {
	return "pedidos"
}

// PedidoFoto foto anexada a um pedido (só acrescenta)
type PedidoFoto struct {
	ID        uint      `gorm:"primaryKey"`
	PedidoID  uint      `gorm:"not null;index"`
	FotoURL   string    `gorm:"column:foto_url;type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`

	Pedido *Pedido `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (PedidoFoto) TableName() string {
	return "pedido_fotos"
}

// PedidoUpdate mensagem/atualização de um pedido.
// VisivelLoja sem default no gorm: false tem de chegar à base de dados.
type PedidoUpdate struct {
	ID          uint      `gorm:"primaryKey"`
	PedidoID    uint      `gorm:"not null;index"`
	UserID      uint      `gorm:"not null;index"`
	Tipo        string    `gorm:"type:varchar(50);not null"`
	Conteudo    string    `gorm:"type:text;not null"`
	VisivelLoja bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`

	Pedido *Pedido `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
	User   *User   `gorm:"foreignKey:UserID"`
}

func (PedidoUpdate) TableName() string {
	return "pedido_updates"
}
