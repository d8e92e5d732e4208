package registration

import (
	"context"
	"registration/pkg/domain"
)

//go:generate mockgen -package mockregistration -source=interface.go -destination=mock/mockregistration.go *
type Registrar interface {
	Register(ctx context.Context, in Input) (*domain.Account, error)
}
