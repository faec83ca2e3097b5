package resource

import (
	"github.com/emergentmethods/flowctl/domain"
)

// UseCase runs generic resource operations against one remote.
type UseCase struct {
	Remote *domain.Remote
	// Table defaults to DefaultTable() when nil.
	Table Table
}

func (u *UseCase) table() Table {
	if u.Table == nil {
		u.Table = DefaultTable()
	}
	return u.Table
}
