package postgresadapter

import (
	"context"

	"github.com/google/uuid"
)

// UUIDGenerator mints entity identifiers and opaque token values.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
