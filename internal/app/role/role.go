package role

// Role papel do utilizador no portal
type Role string

const (
	Admin        Role = "admin"
	Loja         Role = "loja"
	Departamento Role = "departamento"
)

// All todos os papéis autenticáveis
var All = []Role{Admin, Loja, Departamento}

// Valid indica se o papel é um dos conhecidos
func (r Role) Valid() bool {
	switch r {
	case Admin, Loja, Departamento:
		return true
	}
	return false
}

// BackOffice departamento e admin veem todas as lojas
func (r Role) BackOffice() bool {
	return r == Admin || r == Departamento
}

func (r Role) String() string {
	return string(r)
}
