package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/edubox-backend/internal/data/repos"
	"github.com/yungbote/edubox-backend/internal/domain/billing"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type Decision struct {
	Allowed bool
	Plan    Plan
	Feature Feature
	Limit   int64
	Used    int64
	Reason  string
}

const (
	ReasonNotInPlan     = "not_in_plan"
	ReasonLimitExceeded = "limit_exceeded"
)

type Service interface {
	Check(ctx context.Context, userID string, plan Plan, feature Feature) (Decision, error)
	Record(ctx context.Context, userID string, feature Feature) error
}

type service struct {
	log   *logger.Logger
	usage repos.UsageRepo
	now   func() time.Time
}

func NewService(log *logger.Logger, usage repos.UsageRepo) Service {
	return &service{
		log:   log.With("service", "EntitlementService"),
		usage: usage,
		now:   time.Now,
	}
}

func (s *service) Check(ctx context.Context, userID string, plan Plan, feature Feature) (Decision, error) {
	plan = ParsePlan(string(plan))
	d := Decision{Plan: plan, Feature: feature, Limit: Limit(plan, feature)}
	switch {
	case d.Limit == 0:
		d.Reason = ReasonNotInPlan
		return d, nil
	case d.Limit == Unlimited:
		d.Allowed = true
		return d, nil
	}

	used, err := s.usage.Get(ctx, nil, userID, string(feature), billing.Period(s.now()))
	if err != nil {
		return d, fmt.Errorf("load usage: %w", err)
	}
	d.Used = used
	if used >= d.Limit {
		d.Reason = ReasonLimitExceeded
		return d, nil
	}
	d.Allowed = true
	return d, nil
}

// Record counts one use of feature in the current period.
func (s *service) Record(ctx context.Context, userID string, feature Feature) error {
	if userID == "" || feature == "" {
		return nil
	}
	if err := s.usage.Increment(ctx, nil, userID, string(feature), billing.Period(s.now()), 1); err != nil {
		return fmt.Errorf("record usage %s: %w", feature, err)
	}
	return nil
}
