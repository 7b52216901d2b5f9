package branch

import "context"

// BranchRepository defines read access to branches.
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (Branch, error)
	List(ctx context.Context) ([]Branch, error)
}
