package helper

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"

	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
	mysqlRowIsReferenced = 1451
	mysqlCheckViolated   = 3819
)

// MapDBError translates constraint violations from either driver into an
// HTTP status. ok is false for anything that is not a constraint error.
func MapDBError(err error) (status int, msg string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapSQLState(pgErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return mapSQLState(string(pqErr.Code))
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return fiber.StatusConflict, "duplicate record", true
		case mysqlNoReferencedRow, mysqlRowIsReferenced:
			return fiber.StatusBadRequest, "referenced record not found", true
		case mysqlCheckViolated:
			return fiber.StatusBadRequest, "value out of range", true
		}
	}
	return fiber.StatusInternalServerError, "", false
}

func mapSQLState(code string) (int, string, bool) {
	switch code {
	case pgUniqueViolation:
		return fiber.StatusConflict, "duplicate record", true
	case pgForeignKeyViolation:
		return fiber.StatusBadRequest, "referenced record not found", true
	case pgCheckViolation:
		return fiber.StatusBadRequest, "value out of range", true
	}
	return fiber.StatusInternalServerError, "", false
}

// IsUniqueViolation reports a duplicate key error from any driver.
func IsUniqueViolation(err error) bool {
	status, _, ok := MapDBError(err)
	return ok && status == fiber.StatusConflict
}
