package main

import (
	"vidros-backend/internal/api"

	_ "vidros-backend/docs"

	"github.com/sirupsen/logrus"
)

// @title Portal de Vidros Especiais API
// @version 1.0.0
// @description Pedidos de reparação de vidros entre lojas e o departamento.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer <token>"
func main() {
	logrus.Info("App start")
	if err := api.StartServer(); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("App terminated")
}
