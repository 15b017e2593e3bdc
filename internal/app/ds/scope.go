package ds

// Scope restrição de visibilidade por loja.
// Restricted=false significa acesso a todas as lojas.
type Scope struct {
	Restricted bool
	LojaID     uint
}

// Unrestricted scope do back-office
var Unrestricted = Scope{}

// ForLoja scope de um utilizador de loja
func ForLoja(lojaID uint) Scope {
	return Scope{Restricted: true, LojaID: lojaID}
}
