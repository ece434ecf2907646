package database

import (
	"errors"

	"supermercado-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes the stores care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

func classified(kind error, msg string, cause error) error {
	return &models.Error{Kind: kind, Message: msg, Cause: cause}
}

// Classify turns driver errors into a models.Error of the matching kind.
// The message is generic; the driver error stays reachable as the cause so
// stores can still inspect it. Unknown errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return classified(models.ErrNotFound, "Registro no encontrado", err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return classified(models.ErrConflict, "El registro ya existe", err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return classified(models.ErrConflict, "El registro está referenciado por otros datos", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return classified(models.ErrConflict, "El registro ya existe", err)
		case codeForeignKeyViolation:
			return classified(models.ErrConflict, "El registro está referenciado por otros datos", err)
		case codeCheckViolation, codeNumericOutOfRange:
			return classified(models.ErrValidation, "Datos inválidos", err)
		}
	}
	return err
}

// ConstraintName returns the violated constraint, if the error carries one.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
