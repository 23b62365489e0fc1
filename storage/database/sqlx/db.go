// Package sqlxrepos implements the core repositories over postgres with
// sqlx row scanning and squirrel query building.
package sqlxrepos

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}
