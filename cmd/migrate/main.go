package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/config"
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/dsn"
	"vidros-backend/internal/app/repository"
	"vidros-backend/internal/app/role"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	adminUsername := flag.String("admin-username", "", "cria um admin com este username")
	adminPassword := flag.String("admin-password", "", "password do admin")
	adminName := flag.String("admin-name", "Administrador", "nome do admin")
	showStats := flag.Bool("stats", false, "mostra contagens depois de migrar")
	flag.Parse()

	_ = godotenv.Load()
	config.ConfigureLogger(config.LogConfig{Level: os.Getenv("LOG_LEVEL"), Format: os.Getenv("LOG_FORMAT")})

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}

	// New aplica as migrações
	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	defer repo.Close()

	logrus.Info("Database migration completed successfully")

	ctx := context.Background()

	if *adminUsername != "" {
		if err = createAdmin(ctx, repo, *adminUsername, *adminPassword, *adminName); err != nil {
			logrus.Fatalf("Failed to create admin: %v", err)
		}
		logrus.Infof("Admin %s created", *adminUsername)
	}

	if *showStats {
		stats, err := repo.GetStats(ctx)
		if err != nil {
			logrus.Fatalf("Failed to get stats: %v", err)
		}
		fmt.Printf("lojas ativas: %d\nutilizadores ativos: %d\npedidos: %d\n", stats.TotalLojas, stats.TotalUsers, stats.TotalPedidos)
		for _, sc := range stats.PedidosPorStatus {
			fmt.Printf("  %s: %d\n", sc.Status, sc.Count)
		}
	}
}

func createAdmin(ctx context.Context, repo *repository.Repository, username, password, name string) error {
	if len(password) < 6 {
		return apperr.Validation("Password deve ter pelo menos 6 caracteres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	return repo.CreateUser(ctx, &ds.User{
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role.Admin.String(),
	})
}
