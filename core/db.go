package core

// DBOrdering is a single ORDER BY term requested by a caller.
// Repositories render it straight into SQL, so transport layers must
// sanitize Field before handing it down.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
