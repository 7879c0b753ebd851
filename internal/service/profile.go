package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"devconnect/internal/cache"
	"devconnect/internal/model"
	"devconnect/internal/queue"
	"devconnect/internal/repository"
)

// ProfileService implements profile CRUD plus experience/education
// sub-records. The public directory listing goes through the Redis page
// cache; every mutation publishes an activity event so the worker can
// invalidate stale pages.
type ProfileService struct {
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	listingCache cache.ListingCache
	publisher    queue.Publisher
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	listingCache cache.ListingCache,
	publisher queue.Publisher,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		listingCache: listingCache,
		publisher:    publisher,
	}
}

// Current returns the caller's own profile with the user join.
func (s *ProfileService) Current(ctx context.Context, userID int64) (*model.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// ByHandle returns the profile owning a handle.
func (s *ProfileService) ByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	return s.profileRepo.GetByHandle(ctx, handle)
}

// ByUserID returns the profile of an arbitrary user.
func (s *ProfileService) ByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// All returns one rendered page of the profile directory, newest-first.
// Pages are served from the listing cache when present; misses render
// from the database and backfill the cache.
func (s *ProfileService) All(ctx context.Context, skip, limit int) ([]byte, error) {
	if data, found, err := s.listingCache.GetPage(ctx, cache.ProfilesCachePrefix, skip, limit); err == nil && found {
		return data, nil
	} else if err != nil {
		log.Printf("[ProfileService] listing cache read failed: %v", err)
	}

	profiles, err := s.profileRepo.GetAll(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	data, err := json.Marshal(profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to render profiles: %w", err)
	}

	if err := s.listingCache.SetPage(ctx, cache.ProfilesCachePrefix, skip, limit, json.RawMessage(data)); err != nil {
		log.Printf("[ProfileService] listing cache write failed: %v", err)
	}

	return data, nil
}

// Upsert creates the caller's profile or updates it in place. The handle
// must not belong to a different user; resubmitting your own handle is
// fine. Only the request's enumerated fields are copied onto the profile.
func (s *ProfileService) Upsert(ctx context.Context, userID int64, req *model.ProfileRequest) (*model.Profile, error) {
	ownerID, err := s.profileRepo.HandleOwner(ctx, req.Handle)
	if err == nil && ownerID != userID {
		return nil, model.ErrHandleTaken
	}

	existing, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && err != model.ErrProfileNotFound {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile := &model.Profile{UserID: userID}
	if existing != nil {
		profile.ID = existing.ID
	}
	applyProfileRequest(profile, req)

	if existing == nil {
		err = s.profileRepo.Create(ctx, profile)
	} else {
		err = s.profileRepo.Update(ctx, profile)
	}
	if err != nil {
		return nil, err
	}

	s.publishActivity(queue.NewProfileChangedEvent(userID))

	return s.profileRepo.GetByUserID(ctx, userID)
}

// AddExperience prepends a work-history entry to the caller's profile and
// returns the updated profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID int64, req *model.ExperienceRequest) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exp := &model.Experience{
		ID:          uuid.New().String(),
		ProfileID:   profile.ID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    optional(req.Location),
		From:        req.From,
		To:          optional(req.To),
		Current:     req.Current,
		Description: optional(req.Description),
		CreatedAt:   time.Now(),
	}

	if err := s.profileRepo.AddExperience(ctx, exp); err != nil {
		return nil, fmt.Errorf("failed to add experience: %w", err)
	}

	s.publishActivity(queue.NewProfileChangedEvent(userID))

	return s.profileRepo.GetByUserID(ctx, userID)
}

// RemoveExperience deletes one experience entry from the caller's profile
// by id and returns the updated profile.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID int64, expID string) (*model.Profile, error) {
	// Ids are uuid columns; a malformed id can never match a row, so it
	// is not-found rather than a database type error.
	if _, err := uuid.Parse(expID); err != nil {
		return nil, model.ErrExperienceNotFound
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.RemoveExperience(ctx, profile.ID, expID); err != nil {
		return nil, err
	}

	s.publishActivity(queue.NewProfileChangedEvent(userID))

	return s.profileRepo.GetByUserID(ctx, userID)
}

// AddEducation prepends a schooling entry to the caller's profile and
// returns the updated profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID int64, req *model.EducationRequest) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	edu := &model.Education{
		ID:           uuid.New().String(),
		ProfileID:    profile.ID,
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           optional(req.To),
		Current:      req.Current,
		Description:  optional(req.Description),
		CreatedAt:    time.Now(),
	}

	if err := s.profileRepo.AddEducation(ctx, edu); err != nil {
		return nil, fmt.Errorf("failed to add education: %w", err)
	}

	s.publishActivity(queue.NewProfileChangedEvent(userID))

	return s.profileRepo.GetByUserID(ctx, userID)
}

// RemoveEducation deletes one education entry from the caller's profile
// by id and returns the updated profile.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID int64, eduID string) (*model.Profile, error) {
	if _, err := uuid.Parse(eduID); err != nil {
		return nil, model.ErrEducationNotFound
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.RemoveEducation(ctx, profile.ID, eduID); err != nil {
		return nil, err
	}

	s.publishActivity(queue.NewProfileChangedEvent(userID))

	return s.profileRepo.GetByUserID(ctx, userID)
}

// DeleteAccount removes the caller's profile and user record. Posts are
// left in place. The two deletes run sequentially without a transaction,
// matching the rest of the mutation paths.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.profileRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	var avatarKey string
	if user.AvatarKey != nil {
		avatarKey = *user.AvatarKey
	}
	s.publishActivity(queue.NewAccountDeletedEvent(userID, avatarKey))

	return nil
}

// publishActivity publishes best-effort: a full stream must never fail
// the request that triggered the event.
func (s *ProfileService) publishActivity(event queue.ActivityEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
		log.Printf("[ProfileService] failed to publish %s event: %v", event.Type, err)
	}
}

// applyProfileRequest copies the request's allow-listed fields onto the
// profile. Skills split on commas in order; social links get an https
// scheme when the submitter left it off.
func applyProfileRequest(p *model.Profile, req *model.ProfileRequest) {
	p.Handle = req.Handle
	p.Status = req.Status
	p.Company = optional(req.Company)
	p.Website = optionalURL(req.Website)
	p.Location = optional(req.Location)
	p.Bio = optional(req.Bio)
	p.GithubUsername = optional(req.GithubUsername)
	p.Skills = pq.StringArray(strings.Split(req.Skills, ","))

	p.Social = model.Social{
		Youtube:   optionalURL(req.Youtube),
		Twitter:   optionalURL(req.Twitter),
		Facebook:  optionalURL(req.Facebook),
		Linkedin:  optionalURL(req.Linkedin),
		Instagram: optionalURL(req.Instagram),
	}
}

// optional maps an empty request string to a NULL column.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalURL is optional plus scheme normalization.
func optionalURL(s string) *string {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return &s
}
