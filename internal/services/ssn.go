package services

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/yungbote/company-registry-backend/internal/platform/apierr"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
)

// SSNValidationService fronts the external social security number registry.
// The current implementation is an unverified stub: it waits out a simulated
// network round trip and returns a random verdict.
type SSNValidationService interface {
	Validate(ctx context.Context, ssn string) (bool, error)
}

type ssnValidationService struct {
	log   *logger.Logger
	delay time.Duration
}

func NewSSNValidationService(baseLog *logger.Logger, delay time.Duration) SSNValidationService {
	serviceLog := baseLog.With("service", "SSNValidationService")
	return &ssnValidationService{log: serviceLog, delay: delay}
}

func (ss *ssnValidationService) Validate(ctx context.Context, ssn string) (bool, error) {
	if strings.TrimSpace(ssn) == "" {
		return false, apierr.BadRequest("social security number must be provided")
	}

	if ss.delay > 0 {
		timer := time.NewTimer(ss.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, apierr.ExternalService("social security number verification aborted", ctx.Err())
		case <-timer.C:
		}
	}

	valid := rand.Intn(2) == 0
	ss.log.Debug("ssn verification completed", "valid", valid)
	return valid, nil
}
