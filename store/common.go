package store

// RowStatus is the soft-delete state shared by persisted records.
type RowStatus string

const (
	// Normal is the status for active records.
	Normal RowStatus = "NORMAL"
	// Archived is the status for soft-deleted records.
	Archived RowStatus = "ARCHIVED"
)

func (r RowStatus) String() string {
	return string(r)
}
