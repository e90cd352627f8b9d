package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	// ErrStaleState is returned by compare-and-set updates whose expected
	// state no longer matches the stored row.
	ErrStaleState = errors.New("record changed concurrently")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally; callers add
// ESCAPE '\' to the clause.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Models lists every persisted row type, in dependency order.
func Models() []any {
	return []any{
		&userModel{},
		&artworkModel{},
		&artworkLikeModel{},
		&commentModel{},
		&commissionModel{},
		&orderModel{},
		&notificationModel{},
	}
}
