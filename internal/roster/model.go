package roster

// Entry is one doctor on the roster. Read-only to this service; the roster
// is maintained out of band.
type Entry struct {
	ID           int64
	Name         string
	Address      string
	Category     string
	IsActive     bool
	PriorityRank int
}
