package market

type Status string

const (
	StatusActive  Status = "active"
	StatusSold    Status = "sold"
	StatusDeleted Status = "deleted"
)

var validNext = map[Status]map[Status]bool{
	StatusActive:  {StatusSold: true, StatusDeleted: true},
	StatusSold:    {},
	StatusDeleted: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}
