package handler

import (
	"net/http"
	"testing"

	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/dto"
	"vidros-backend/internal/app/role"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	srv := newTestServer(t, false)
	loja := srv.store.seedLoja("Vidros Norte")
	lojaUser := srv.store.seedUser("norte", "norte123", role.Loja, &loja.ID)
	dept := srv.store.seedUser("dept", "dept123", role.Departamento, nil)

	expectError(t, srv.do(t, http.MethodGet, "/api/admin/lojas", "", nil), http.StatusUnauthorized, "Token não fornecido")
	expectError(t, srv.do(t, http.MethodGet, "/api/admin/lojas", "lixo", nil), http.StatusUnauthorized, "Token inválido ou expirado")
	expectError(t, srv.do(t, http.MethodGet, "/api/admin/lojas", srv.token(t, lojaUser), nil), http.StatusForbidden, "")
	expectError(t, srv.do(t, http.MethodGet, "/api/admin/stats", srv.token(t, dept), nil), http.StatusForbidden, "")
}

func TestLojaCRUD(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	token := srv.token(t, admin)

	expectError(t, srv.do(t, http.MethodPost, "/api/admin/lojas", token, map[string]string{"address": "Rua A"}),
		http.StatusBadRequest, "Nome da loja é obrigatório")

	w := srv.do(t, http.MethodPost, "/api/admin/lojas", token, dto.CreateLojaRequest{Name: "Vidros Sul"})
	if w.Code != http.StatusCreated {
		t.Fatalf("criar loja = %d (%s)", w.Code, w.Body.String())
	}
	var created dto.LojaResponse
	decode(t, w, &created)
	if !created.Active || created.ID == 0 {
		t.Errorf("loja criada = %+v", created)
	}
	srv.do(t, http.MethodPost, "/api/admin/lojas", token, dto.CreateLojaRequest{Name: "Vidros Algarve"})

	w = srv.do(t, http.MethodGet, "/api/admin/lojas", token, nil)
	var lojas []dto.LojaResponse
	decode(t, w, &lojas)
	if len(lojas) != 2 || lojas[0].Name != "Vidros Algarve" {
		t.Errorf("lojas não ordenadas por nome: %+v", lojas)
	}

	// só os campos enviados mudam
	phone := "289000000"
	w = srv.do(t, http.MethodPut, "/api/admin/lojas/"+itoa(created.ID), token, dto.UpdateLojaRequest{Phone: &phone})
	var updated dto.LojaResponse
	decode(t, w, &updated)
	if w.Code != http.StatusOK || updated.Name != "Vidros Sul" || updated.Phone == nil || *updated.Phone != phone {
		t.Errorf("update = %d %+v", w.Code, updated)
	}

	expectError(t, srv.do(t, http.MethodPut, "/api/admin/lojas/999", token, dto.UpdateLojaRequest{Phone: &phone}),
		http.StatusNotFound, "Loja não encontrada")

	w = srv.do(t, http.MethodDelete, "/api/admin/lojas/"+itoa(created.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete = %d (%s)", w.Code, w.Body.String())
	}
	expectError(t, srv.do(t, http.MethodDelete, "/api/admin/lojas/"+itoa(created.ID), token, nil),
		http.StatusNotFound, "Loja não encontrada")
}

func TestDeleteLojaWithUsers(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	loja := srv.store.seedLoja("Vidros Norte")
	srv.store.seedUser("norte", "norte123", role.Loja, &loja.ID)

	expectError(t, srv.do(t, http.MethodDelete, "/api/admin/lojas/"+itoa(loja.ID), srv.token(t, admin), nil),
		http.StatusBadRequest, "Não é possível eliminar loja com utilizadores associados")
	if _, ok := srv.store.lojas[loja.ID]; !ok {
		t.Error("loja não devia ter sido eliminada")
	}
}

func TestResetLojaPedidos(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	norte := srv.store.seedLoja("Vidros Norte")
	sul := srv.store.seedLoja("Vidros Sul")
	userNorte := srv.store.seedUser("norte", "norte123", role.Loja, &norte.ID)
	userSul := srv.store.seedUser("sul", "sul123", role.Loja, &sul.ID)

	for i := 0; i < 3; i++ {
		createPedido(t, srv, srv.token(t, userNorte), []string{"http://x/1.jpg"})
	}
	keep := createPedido(t, srv, srv.token(t, userSul), nil)

	w := srv.do(t, http.MethodPost, "/api/admin/lojas/"+itoa(norte.ID)+"/reset-pedidos", srv.token(t, admin), nil)
	var resp dto.ResetPedidosResponse
	decode(t, w, &resp)
	if w.Code != http.StatusOK || resp.PedidosEliminados != 3 || resp.LojaName != "Vidros Norte" || resp.LojaID != norte.ID {
		t.Fatalf("reset = %d %+v", w.Code, resp)
	}
	if resp.Message != "3 pedido(s) eliminado(s) da loja Vidros Norte" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(srv.store.pedidos) != 1 || srv.store.pedidos[keep.ID] == nil {
		t.Errorf("pedidos de outras lojas afetados: %d restantes", len(srv.store.pedidos))
	}
	if len(srv.store.fotos) != 0 {
		t.Errorf("fotos órfãs: %d", len(srv.store.fotos))
	}

	expectError(t, srv.do(t, http.MethodPost, "/api/admin/lojas/999/reset-pedidos", srv.token(t, admin), nil),
		http.StatusNotFound, "Loja não encontrada")
}

func TestCreateUser(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	loja := srv.store.seedLoja("Vidros Norte")
	token := srv.token(t, admin)

	tests := []struct {
		name    string
		body    dto.CreateUserRequest
		status  int
		message string
	}{
		{"campos em falta", dto.CreateUserRequest{Username: "x"}, http.StatusBadRequest, "Username, password, nome e role são obrigatórios"},
		{"role inválido", dto.CreateUserRequest{Username: "x", Password: "123456", Name: "X", Role: "gerente"}, http.StatusBadRequest, "Role inválido"},
		{"loja sem loja_id", dto.CreateUserRequest{Username: "x", Password: "123456", Name: "X", Role: "loja"}, http.StatusBadRequest, "Loja é obrigatória para utilizadores do tipo loja"},
		{"username duplicado", dto.CreateUserRequest{Username: "admin", Password: "123456", Name: "X", Role: "departamento"}, http.StatusBadRequest, "Username já existe"},
		{"loja válida", dto.CreateUserRequest{Username: "norte", Password: "123456", Name: "Norte", Role: "loja", LojaID: uintPtr(loja.ID)}, http.StatusCreated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/api/admin/users", token, tt.body)
			if tt.status != http.StatusCreated {
				expectError(t, w, tt.status, tt.message)
				return
			}
			if w.Code != http.StatusCreated {
				t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
			}
			var user dto.UserResponse
			decode(t, w, &user)
			if user.LojaID == nil || *user.LojaID != loja.ID || !user.Active {
				t.Errorf("user = %+v", user)
			}
		})
	}

	t.Run("duplicado por email", func(t *testing.T) {
		email := "admin@vidros.pt"
		w := srv.do(t, http.MethodPost, "/api/admin/users", token,
			dto.CreateUserRequest{Username: "outro", Email: &email, Password: "123456", Name: "Outro", Role: "admin"})
		expectError(t, w, http.StatusBadRequest, "Email já existe")
	})

	t.Run("loja_id ignorado fora do papel loja", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/admin/users", token,
			dto.CreateUserRequest{Username: "dept", Password: "123456", Name: "Dept", Role: "departamento", LojaID: uintPtr(loja.ID)})
		var user dto.UserResponse
		decode(t, w, &user)
		if w.Code != http.StatusCreated || user.LojaID != nil {
			t.Errorf("departamento com loja_id: %d %+v", w.Code, user)
		}
		if stored := srv.store.users[user.ID]; stored.PasswordHash == "123456" || !checkPassword(stored.PasswordHash, "123456") {
			t.Error("password deve ser guardada com bcrypt")
		}
	})
}

func TestUpdateUser(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	dept := srv.store.seedUser("dept", "dept123", role.Departamento, nil)
	srv.store.seedUser("outro", "outro123", role.Departamento, nil)
	token := srv.token(t, admin)
	path := "/api/admin/users/" + itoa(dept.ID)

	invalid := "chefe"
	expectError(t, srv.do(t, http.MethodPut, path, token, dto.UpdateUserRequest{Role: &invalid}), http.StatusBadRequest, "Role inválido")

	taken := "outro"
	expectError(t, srv.do(t, http.MethodPut, path, token, dto.UpdateUserRequest{Username: &taken}), http.StatusBadRequest, "Username já existe")

	oldHash := srv.store.users[dept.ID].PasswordHash
	name := "Departamento Técnico"
	empty := ""
	w := srv.do(t, http.MethodPut, path, token, dto.UpdateUserRequest{Name: &name, Password: &empty})
	var user dto.UserResponse
	decode(t, w, &user)
	if w.Code != http.StatusOK || user.Name != name || user.Username != "dept" {
		t.Fatalf("update = %d %+v", w.Code, user)
	}
	if srv.store.users[dept.ID].PasswordHash != oldHash {
		t.Error("password vazia não deve alterar o hash")
	}

	newPassword := "nova123"
	srv.do(t, http.MethodPut, path, token, dto.UpdateUserRequest{Password: &newPassword})
	if !checkPassword(srv.store.users[dept.ID].PasswordHash, newPassword) {
		t.Error("password enviada deve ser re-encriptada")
	}

	expectError(t, srv.do(t, http.MethodPut, "/api/admin/users/999", token, dto.UpdateUserRequest{Name: &name}),
		http.StatusNotFound, "Utilizador não encontrado")
}

func TestDeleteUser(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	dept := srv.store.seedUser("dept", "dept123", role.Departamento, nil)
	token := srv.token(t, admin)

	expectError(t, srv.do(t, http.MethodDelete, "/api/admin/users/"+itoa(admin.ID), token, nil),
		http.StatusBadRequest, "Não pode eliminar o seu próprio utilizador")

	w := srv.do(t, http.MethodDelete, "/api/admin/users/"+itoa(dept.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d (%s)", w.Code, w.Body.String())
	}
	expectError(t, srv.do(t, http.MethodDelete, "/api/admin/users/"+itoa(dept.ID), token, nil),
		http.StatusNotFound, "Utilizador não encontrado")
}

// o reset escreve na coluna password e o login continua a ler password_hash
func TestResetUserPasswordKeepsLoginHash(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	dept := srv.store.seedUser("dept", "antiga123", role.Departamento, nil)
	token := srv.token(t, admin)
	path := "/api/admin/users/" + itoa(dept.ID) + "/reset-password"

	expectError(t, srv.do(t, http.MethodPost, path, token, dto.ResetPasswordRequest{NewPassword: "123"}),
		http.StatusBadRequest, "Password deve ter pelo menos 6 caracteres")

	w := srv.do(t, http.MethodPost, path, token, dto.ResetPasswordRequest{NewPassword: "nova123"})
	var resp dto.ResetPasswordResponse
	decode(t, w, &resp)
	if w.Code != http.StatusOK || resp.Message != "Password alterada com sucesso" || resp.User.ID != dept.ID {
		t.Fatalf("reset = %d %+v", w.Code, resp)
	}

	stored := srv.store.users[dept.ID]
	if stored.Password == nil || !checkPassword(*stored.Password, "nova123") {
		t.Error("coluna password deve ter o novo hash")
	}

	expectError(t, srv.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "dept", Password: "nova123"}),
		http.StatusUnauthorized, "Credenciais inválidas")
	if w := srv.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "dept", Password: "antiga123"}); w.Code != http.StatusOK {
		t.Errorf("password antiga deixou de funcionar: %d", w.Code)
	}

	expectError(t, srv.do(t, http.MethodPost, "/api/admin/users/999/reset-password", token, dto.ResetPasswordRequest{NewPassword: "nova123"}),
		http.StatusNotFound, "Utilizador não encontrado")
}

func TestGetStats(t *testing.T) {
	srv := newTestServer(t, false)
	admin := srv.store.seedUser("admin", "admin123", role.Admin, nil)
	loja := srv.store.seedLoja("Vidros Norte")
	fechada := srv.store.seedLoja("Vidros Fechada")
	srv.store.lojas[fechada.ID].Active = false
	lojaUser := srv.store.seedUser("norte", "norte123", role.Loja, &loja.ID)

	lojaToken := srv.token(t, lojaUser)
	createPedido(t, srv, lojaToken, nil)
	createPedido(t, srv, lojaToken, nil)
	cancelado := createPedido(t, srv, lojaToken, nil)
	srv.store.pedidos[cancelado.ID].Status = ds.StatusCancelado

	w := srv.do(t, http.MethodGet, "/api/admin/stats", srv.token(t, admin), nil)
	var stats dto.StatsResponse
	decode(t, w, &stats)
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	if stats.TotalLojas != 1 || stats.TotalUsers != 2 || stats.TotalPedidos != 3 {
		t.Errorf("totais = %+v", stats)
	}
	want := []dto.StatusCount{{Status: "cancelado", Count: 1}, {Status: "pendente", Count: 2}}
	if len(stats.PedidosPorStatus) != len(want) {
		t.Fatalf("pedidos_por_status = %+v", stats.PedidosPorStatus)
	}
	for i := range want {
		if stats.PedidosPorStatus[i] != want[i] {
			t.Errorf("pedidos_por_status[%d] = %+v, esperado %+v", i, stats.PedidosPorStatus[i], want[i])
		}
	}
}
