package violation

import (
	"context"

	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
)

type ViolationServiceImpl struct {
	violation.ViolationRepository
}

func NewViolationService(violationRepo violation.ViolationRepository) violation.ViolationService {
	return &ViolationServiceImpl{ViolationRepository: violationRepo}
}

// List implements violation.ViolationService.
func (s *ViolationServiceImpl) List(ctx context.Context, req violation.ListViolationsRequest) (violation.ListViolationsResponse, error) {
	if err := req.Validate(); err != nil {
		return violation.ListViolationsResponse{}, err
	}
	req.Normalize()

	records, total, err := s.ViolationRepository.ListByMonth(ctx, violation.Filter{
		Month:    req.Month,
		Year:     req.Year,
		BranchID: req.BranchID,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		return violation.ListViolationsResponse{}, err
	}

	responses := make([]violation.ViolationResponse, 0, len(records))
	for _, v := range records {
		responses = append(responses, violation.ViolationResponse{
			ID:           v.ID,
			UserID:       v.UserID,
			BranchID:     v.BranchID,
			AttendanceID: v.AttendanceID,
			Type:         v.Type,
			Date:         v.Date.Format("2006-01-02"),
			Month:        v.Month,
			Year:         v.Year,
			CreatedAt:    v.CreatedAt,
		})
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return violation.ListViolationsResponse{
		TotalCount: total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
		Violations: responses,
	}, nil
}
