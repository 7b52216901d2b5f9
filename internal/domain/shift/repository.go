package shift

import "context"

// ShiftRepository defines read access to shift definitions. Shift management
// lives in an external collaborator; the engine only resolves windows.
type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (Shift, error)
}
