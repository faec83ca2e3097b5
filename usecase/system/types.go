package system

import "github.com/emergentmethods/flowctl/domain"

// UseCase reads server health.
type UseCase struct {
	Remote *domain.Remote
}
