package handler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/repository"
	"vidros-backend/internal/app/role"

	"golang.org/x/crypto/bcrypt"
)

// memStore implementação em memória dos stores, com relógio que avança um segundo por leitura
type memStore struct {
	mu sync.Mutex

	lojas   map[uint]*ds.Loja
	users   map[uint]*ds.User
	pedidos map[uint]*ds.Pedido
	fotos   []ds.PedidoFoto
	updates []ds.PedidoUpdate

	nextID    uint
	clock     time.Time
	failFotos bool
}

func newMemStore() *memStore {
	return &memStore{
		lojas:   map[uint]*ds.Loja{},
		users:   map[uint]*ds.User{},
		pedidos: map[uint]*ds.Pedido{},
		clock:   time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local),
	}
}

func (s *memStore) tick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked()
}

func (s *memStore) tickLocked() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// ============ seeds ============

func (s *memStore) seedLoja(name string) *ds.Loja {
	l := &ds.Loja{Name: name}
	_ = s.CreateLoja(context.Background(), l)
	return l
}

func (s *memStore) seedUser(username, password string, r role.Role, lojaID *uint) *ds.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	email := username + "@vidros.pt"
	u := &ds.User{Username: username, Email: &email, PasswordHash: string(hash), Name: username, Role: r.String(), LojaID: lojaID}
	_ = s.CreateUser(context.Background(), u)
	return u
}

// ============ UserStore ============

func (s *memStore) withLoja(u *ds.User) *ds.User {
	out := *u
	if u.LojaID != nil {
		if l, ok := s.lojas[*u.LojaID]; ok {
			copyLoja := *l
			out.Loja = &copyLoja
		}
	}
	return &out
}

func (s *memStore) GetActiveUserByLogin(_ context.Context, login string) (*ds.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if !u.Active {
			continue
		}
		if u.Username == login || (u.Email != nil && *u.Email == login) {
			return s.withLoja(u), nil
		}
	}
	return nil, apperr.ErrInvalidCredentials
}

func (s *memStore) GetUserByID(_ context.Context, id uint) (*ds.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("Utilizador não encontrado")
	}
	return s.withLoja(u), nil
}

// ============ AdminStore ============

func (s *memStore) ListLojas(context.Context) ([]ds.Loja, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ds.Loja, 0, len(s.lojas))
	for _, l := range s.lojas {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) CreateLoja(_ context.Context, loja *ds.Loja) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loja.ID = s.id()
	loja.Active = true
	loja.CreatedAt = s.tickLocked()
	stored := *loja
	s.lojas[loja.ID] = &stored
	return nil
}

func (s *memStore) UpdateLoja(_ context.Context, id uint, p repository.LojaPatch) (*ds.Loja, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lojas[id]
	if !ok {
		return nil, apperr.NotFound("Loja não encontrada")
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Address != nil {
		l.Address = p.Address
	}
	if p.Phone != nil {
		l.Phone = p.Phone
	}
	if p.Email != nil {
		l.Email = p.Email
	}
	if p.Active != nil {
		l.Active = *p.Active
	}
	out := *l
	return &out, nil
}

func (s *memStore) DeleteLoja(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.LojaID != nil && *u.LojaID == id {
			return apperr.Conflict("Não é possível eliminar loja com utilizadores associados")
		}
	}
	if _, ok := s.lojas[id]; !ok {
		return apperr.NotFound("Loja não encontrada")
	}
	delete(s.lojas, id)
	return nil
}

func (s *memStore) ResetLojaPedidos(_ context.Context, id uint) (*ds.Loja, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lojas[id]
	if !ok {
		return nil, 0, apperr.NotFound("Loja não encontrada")
	}
	var n int64
	for pid, p := range s.pedidos {
		if p.LojaID == id {
			delete(s.pedidos, pid)
			s.fotos = filterFotos(s.fotos, pid)
			s.updates = filterUpdates(s.updates, pid)
			n++
		}
	}
	out := *l
	return &out, n, nil
}

func filterFotos(in []ds.PedidoFoto, pedidoID uint) []ds.PedidoFoto {
	out := in[:0]
	for _, f := range in {
		if f.PedidoID != pedidoID {
			out = append(out, f)
		}
	}
	return out
}

func filterUpdates(in []ds.PedidoUpdate, pedidoID uint) []ds.PedidoUpdate {
	out := in[:0]
	for _, u := range in {
		if u.PedidoID != pedidoID {
			out = append(out, u)
		}
	}
	return out
}

func (s *memStore) ListUsers(context.Context) ([]ds.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ds.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *s.withLoja(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) uniqueViolation(id uint, username string, email *string) error {
	for _, u := range s.users {
		if u.ID == id {
			continue
		}
		if u.Username == username {
			return apperr.Conflict("Username já existe")
		}
		if email != nil && u.Email != nil && *u.Email == *email {
			return apperr.Conflict("Email já existe")
		}
	}
	return nil
}

func (s *memStore) CreateUser(_ context.Context, user *ds.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.uniqueViolation(0, user.Username, user.Email); err != nil {
		return err
	}
	user.ID = s.id()
	user.Active = true
	user.CreatedAt = s.tickLocked()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *memStore) UpdateUser(_ context.Context, id uint, p repository.UserPatch) (*ds.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("Utilizador não encontrado")
	}
	next := *u
	if p.Username != nil {
		next.Username = *p.Username
	}
	if p.Email != nil {
		next.Email = p.Email
	}
	if p.PasswordHash != nil {
		next.PasswordHash = *p.PasswordHash
	}
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if p.LojaID != nil {
		next.LojaID = p.LojaID
	}
	if p.Active != nil {
		next.Active = *p.Active
	}
	if err := s.uniqueViolation(id, next.Username, next.Email); err != nil {
		return nil, err
	}
	s.users[id] = &next
	return s.withLoja(&next), nil
}

func (s *memStore) DeleteUser(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperr.NotFound("Utilizador não encontrado")
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) ResetUserPassword(_ context.Context, id uint, hash string) (*ds.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("Utilizador não encontrado")
	}
	u.Password = &hash
	return s.withLoja(u), nil
}

func (s *memStore) GetStats(context.Context) (*repository.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &repository.Stats{TotalPedidos: int64(len(s.pedidos))}
	for _, l := range s.lojas {
		if l.Active {
			stats.TotalLojas++
		}
	}
	for _, u := range s.users {
		if u.Active {
			stats.TotalUsers++
		}
	}
	counts := map[string]int64{}
	for _, p := range s.pedidos {
		counts[p.Status]++
	}
	for status, n := range counts {
		stats.PedidosPorStatus = append(stats.PedidosPorStatus, repository.StatusCount{Status: status, Count: n})
	}
	sort.Slice(stats.PedidosPorStatus, func(i, j int) bool {
		return stats.PedidosPorStatus[i].Status < stats.PedidosPorStatus[j].Status
	})
	return stats, nil
}

// ============ PedidoStore ============

func inScope(p *ds.Pedido, scope ds.Scope) bool {
	return !scope.Restricted || p.LojaID == scope.LojaID
}

func (s *memStore) ListPedidos(_ context.Context, f repository.PedidoFilter) ([]repository.PedidoRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []repository.PedidoRow
	for _, p := range s.pedidos {
		if !inScope(p, f.Scope) {
			continue
		}
		if !f.Scope.Restricted && f.LojaID != nil && p.LojaID != *f.LojaID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.DateFrom != nil && p.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && p.CreatedAt.After(*f.DateTo) {
			continue
		}

		row := repository.PedidoRow{Pedido: *p, LojaName: s.lojas[p.LojaID].Name, UserName: s.users[p.UserID].Name}
		for _, ft := range s.fotos {
			if ft.PedidoID == p.ID {
				row.TotalFotos++
			}
		}
		for _, u := range s.updates {
			if u.PedidoID != p.ID {
				continue
			}
			row.TotalUpdates++
			if row.UltimaAtualizacao == nil || u.CreatedAt.After(*row.UltimaAtualizacao) {
				t := u.CreatedAt
				row.UltimaAtualizacao = &t
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (s *memStore) GetPedidoDetail(_ context.Context, id uint, scope ds.Scope) (*repository.PedidoDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pedidos[id]
	if !ok || !inScope(p, scope) {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	l := s.lojas[p.LojaID]
	return &repository.PedidoDetail{
		Pedido:    *p,
		LojaName:  l.Name,
		LojaEmail: l.Email,
		LojaPhone: l.Phone,
		UserName:  s.users[p.UserID].Name,
	}, nil
}

func (s *memStore) ListFotos(_ context.Context, pedidoID uint) ([]ds.PedidoFoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ds.PedidoFoto
	for _, f := range s.fotos {
		if f.PedidoID == pedidoID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memStore) ListUpdates(_ context.Context, pedidoID uint, q repository.UpdateQuery) ([]repository.UpdateRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.UpdateRow
	for _, u := range s.updates {
		if u.PedidoID != pedidoID {
			continue
		}
		if q.OnlyVisible && !u.VisivelLoja && (q.AuthorID == nil || *q.AuthorID != u.UserID) {
			continue
		}
		author := s.users[u.UserID]
		out = append(out, repository.UpdateRow{PedidoUpdate: u, UserName: author.Name, UserRole: author.Role})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memStore) MarkViewed(_ context.Context, id uint, column string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pedidos[id]
	if !ok {
		return nil
	}
	switch column {
	case "ultima_visualizacao_loja":
		p.UltimaVisualizacaoLoja = &at
	case "ultima_visualizacao_dept":
		p.UltimaVisualizacaoDept = &at
	default:
		return errors.New("coluna desconhecida")
	}
	return nil
}

func (s *memStore) CreatePedido(_ context.Context, p *ds.Pedido, fotoURLs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFotos && len(fotoURLs) > 0 {
		return apperr.Internal("Erro ao criar pedido", errors.New("falha simulada"))
	}
	p.ID = s.id()
	p.CreatedAt = s.tickLocked()
	stored := *p
	s.pedidos[p.ID] = &stored
	for _, url := range fotoURLs {
		s.fotos = append(s.fotos, ds.PedidoFoto{ID: s.id(), PedidoID: p.ID, FotoURL: url, CreatedAt: s.tickLocked()})
	}
	return nil
}

func (s *memStore) UpdatePedido(_ context.Context, id uint, patch repository.PedidoPatch) (*ds.Pedido, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pedidos[id]
	if !ok {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Valor != nil {
		p.Valor = patch.Valor
	}
	if patch.Custo != nil {
		p.Custo = patch.Custo
	}
	if patch.Fornecedor != nil {
		p.Fornecedor = patch.Fornecedor
	}
	if patch.Notas != nil {
		p.Notas = patch.Notas
	}
	if patch.Disponibilidade != nil {
		p.Disponibilidade = patch.Disponibilidade
	}
	out := *p
	return &out, nil
}

func (s *memStore) CheckPedidoScope(_ context.Context, id uint, scope ds.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pedidos[id]
	if !ok || !inScope(p, scope) {
		return apperr.NotFound("Pedido não encontrado")
	}
	return nil
}

func (s *memStore) AddFoto(_ context.Context, pedidoID uint, url string) (*ds.PedidoFoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := ds.PedidoFoto{ID: s.id(), PedidoID: pedidoID, FotoURL: url, CreatedAt: s.tickLocked()}
	s.fotos = append(s.fotos, f)
	return &f, nil
}

func (s *memStore) AddUpdate(_ context.Context, u *ds.PedidoUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id()
	u.CreatedAt = s.tickLocked()
	s.updates = append(s.updates, *u)
	return nil
}

func (s *memStore) CancelPedido(_ context.Context, id uint, scope ds.Scope) (*ds.Pedido, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pedidos[id]
	if !ok || !inScope(p, scope) {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	p.Status = ds.StatusCancelado
	out := *p
	return &out, nil
}

// fakePhotos guarda os ficheiros recebidos
type fakePhotos struct {
	uploaded []string
}

func (f *fakePhotos) UploadPhoto(_ context.Context, data []byte, filename string) (string, error) {
	f.uploaded = append(f.uploaded, filename)
	return "http://minio.local/pedido-fotos/" + filename, nil
}
