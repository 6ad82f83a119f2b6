package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/google/uuid"
)

const (
	approvalCacheKeyFmt = "approval:%s"
	approvalCacheTTL    = 5 * time.Minute
)

// approvalService gates candidates on MIS review. Status reads go through a
// short-lived cache; writes invalidate it so a just-approved candidate never
// waits out a stale entry.
type approvalService struct {
	candidateRepo domain.CandidateRepository
	cache         domain.CacheRepository
}

func NewApprovalService(candidateRepo domain.CandidateRepository, cache domain.CacheRepository) domain.ApprovalService {
	return &approvalService{
		candidateRepo: candidateRepo,
		cache:         cache,
	}
}

func (s *approvalService) GetStatus(ctx context.Context, userID uuid.UUID) (*domain.ApprovalInfo, error) {
	candidate, err := s.candidateRepo.FindByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}

	return s.statusFor(ctx, candidate.ID)
}

func (s *approvalService) SetStatus(ctx context.Context, candidateID uuid.UUID, status domain.ApprovalStatus) (*domain.ApprovalInfo, error) {
	if status != domain.ApprovalApproved && status != domain.ApprovalRejected {
		return nil, &domain.ValidationError{Field: "status", Message: "status must be approved or rejected"}
	}

	if err := s.candidateRepo.UpdateApprovalStatus(ctx, candidateID, status); err != nil {
		return nil, err
	}

	key := fmt.Sprintf(approvalCacheKeyFmt, candidateID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("failed to invalidate approval cache for %s: %v", candidateID, err)
	}

	return &domain.ApprovalInfo{
		CandidateID: candidateID,
		Status:      status,
		Eligible:    status == domain.ApprovalApproved,
	}, nil
}

func (s *approvalService) CanApply(ctx context.Context, candidateID uuid.UUID) (bool, error) {
	info, err := s.statusFor(ctx, candidateID)
	if err != nil {
		return false, err
	}
	return info.Eligible, nil
}

func (s *approvalService) statusFor(ctx context.Context, candidateID uuid.UUID) (*domain.ApprovalInfo, error) {
	key := fmt.Sprintf(approvalCacheKeyFmt, candidateID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var info domain.ApprovalInfo
		if err := json.Unmarshal([]byte(cached), &info); err == nil {
			return &info, nil
		}
	}

	status, err := s.candidateRepo.GetApprovalStatus(ctx, candidateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load approval status: %w", err)
	}

	info := &domain.ApprovalInfo{
		CandidateID: candidateID,
		Status:      status,
		Eligible:    status == domain.ApprovalApproved,
	}

	if err := s.cache.Set(ctx, key, info, approvalCacheTTL); err != nil {
		log.Printf("failed to cache approval status for %s: %v", candidateID, err)
	}

	return info, nil
}
