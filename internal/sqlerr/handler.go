package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/deppfellow/people/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrCode reports the mapped Code for err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw PostgreSQL error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// sqliteTarget matches "UNIQUE constraint failed: people.name" style messages.
var sqliteTarget = regexp.MustCompile(`constraint failed: (\w+)\.(\w+)`)

// ConvertSQLiteError converts a modernc SQLite error into an *Error.
//
// SQLite reports no structured table or column, so both are parsed from the
// message when present.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	code := Other
	switch src.Code() {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		code = NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		code = ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		code = UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		code = CheckViolation
	case sqlite3.SQLITE_CONSTRAINT:
		code = constraintFromMessage(src.Error())
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		code = ConnectionFailure
	}

	sqlErr := &Error{
		Code:         code,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(src.Code()),
		Message:      src.Error(),
		driverErr:    src,
	}

	if m := sqliteTarget.FindStringSubmatch(src.Error()); len(m) == 3 {
		sqlErr.TableName = m[1]
		sqlErr.ColumnName = m[2]
	}

	return sqlErr
}

// constraintFromMessage classifies a primary SQLITE_CONSTRAINT code, reported
// when extended result codes are off, by its message.
func constraintFromMessage(msg string) Code {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return UniqueViolation
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return NotNullViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return CheckViolation
	default:
		return Other
	}
}

// irregularPlurals covers table names the trailing-"s" rule gets wrong.
var irregularPlurals = map[string]string{
	"people": "person",
}

func singular(name string) string {
	lower := strings.ToLower(name)
	if s, ok := irregularPlurals[lower]; ok {
		return s
	}
	if strings.HasSuffix(lower, "s") && len(lower) > 1 {
		return lower[:len(lower)-1]
	}
	return lower
}

// generateErrorCode creates consistent application error codes from DB errors,
// formatted <DOMAIN>_<ACTION>, e.g. people + UniqueViolation => PERSON_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singular(tableName))
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column name when it can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers an entity name: a "_id" column names the referenced
// entity, otherwise the singular table name is used.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

// humanizeText converts snake_case into Title Case: "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueConstraintKey = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint
// named "unique_<table>_<column>" or "<table>_<column>_key".
func extractColumnForUniqueViolation(sqlErr *Error) string {
	if sqlErr.ColumnName != "" {
		return sqlErr.ColumnName
	}

	constraintName := sqlErr.ConstraintName
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueConstraintKey.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// toSQLError normalizes driver errors from either backend.
func toSQLError(err error) (*Error, bool) {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr, true
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr), true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr), true
	}

	return nil, false
}

// HandleError converts a low-level database error into an application-level error.
//
//   - *errs.HTTPError: returned unchanged
//   - driver constraint errors: 400 with a generated code and friendly message
//   - no rows: 404, naming the entity when the message carries "entity:<name>:"
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if sqlErr, ok := toSQLError(err); ok {
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil)

		case UniqueViolation:
			if columnName := extractColumnForUniqueViolation(sqlErr); columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		errMsg := err.Error()
		entityPrefix := "entity:"
		if strings.Contains(errMsg, entityPrefix) {
			entity := strings.Split(strings.Split(errMsg, entityPrefix)[1], ":")[0]
			entityName := getEntityName(entity, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
