package violation

import "context"

// ViolationService exposes the monthly punctuality report.
type ViolationService interface {
	List(ctx context.Context, req ListViolationsRequest) (ListViolationsResponse, error)
}
