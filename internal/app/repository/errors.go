package repository

import (
	"errors"
	"strings"

	"vidros-backend/internal/app/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// translateUserWriteError converte violações de unicidade em users para Conflict.
// Qualquer outro erro segue como interno.
func translateUserWriteError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return apperr.Conflict("Username já existe")
		}
		return apperr.Conflict("Email já existe")
	}
	return apperr.Internal(msg, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
