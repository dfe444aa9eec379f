package sqlxrepos

import (
	"strings"

	"github.com/trezcool/michezo/core"
)

// orderBy renders an ORDER BY clause from orderings, falling back to
// defaultField ASC. Field names come from our own binding layer, never
// straight from user input.
func orderBy(ordering []core.DBOrdering, defaultField string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + defaultField
	}
	clauses := make([]string, len(ordering))
	for i, ord := range ordering {
		clauses[i] = ord.String()
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}
