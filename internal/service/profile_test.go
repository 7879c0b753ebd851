package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"devconnect/internal/model"
	"devconnect/internal/queue"
)

type mockProfileRepository struct {
	getByUserIDFn func(ctx context.Context, userID int64) (*model.Profile, error)
	getByHandleFn func(ctx context.Context, handle string) (*model.Profile, error)
	getAllFn      func(ctx context.Context, skip, limit int) ([]model.Profile, error)
	handleOwnerFn func(ctx context.Context, handle string) (int64, error)

	createCalls []*model.Profile
	updateCalls []*model.Profile
	deleteCalls []int64

	addExpCalls    []*model.Experience
	removeExpCalls []string
	addEduCalls    []*model.Education
	removeEduCalls []string

	createErr    error
	removeExpErr error
	removeEduErr error
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	if m.getByHandleFn != nil {
		return m.getByHandleFn(ctx, handle)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) GetAll(ctx context.Context, skip, limit int) ([]model.Profile, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx, skip, limit)
	}
	return []model.Profile{}, nil
}

func (m *mockProfileRepository) HandleOwner(ctx context.Context, handle string) (int64, error) {
	if m.handleOwnerFn != nil {
		return m.handleOwnerFn(ctx, handle)
	}
	return 0, model.ErrProfileNotFound
}

func (m *mockProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	m.createCalls = append(m.createCalls, p)
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = 1
	return nil
}

func (m *mockProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	m.updateCalls = append(m.updateCalls, p)
	return nil
}

func (m *mockProfileRepository) Delete(ctx context.Context, userID int64) error {
	m.deleteCalls = append(m.deleteCalls, userID)
	return nil
}

func (m *mockProfileRepository) AddExperience(ctx context.Context, exp *model.Experience) error {
	m.addExpCalls = append(m.addExpCalls, exp)
	return nil
}

func (m *mockProfileRepository) RemoveExperience(ctx context.Context, profileID int64, expID string) error {
	m.removeExpCalls = append(m.removeExpCalls, expID)
	return m.removeExpErr
}

func (m *mockProfileRepository) AddEducation(ctx context.Context, edu *model.Education) error {
	m.addEduCalls = append(m.addEduCalls, edu)
	return nil
}

func (m *mockProfileRepository) RemoveEducation(ctx context.Context, profileID int64, eduID string) error {
	m.removeEduCalls = append(m.removeEduCalls, eduID)
	return m.removeEduErr
}

type mockListingCache struct {
	pages map[string][]byte

	getCalls        int
	setCalls        int
	invalidateCalls []string
}

func newMockListingCache() *mockListingCache {
	return &mockListingCache{pages: make(map[string][]byte)}
}

func (m *mockListingCache) GetPage(ctx context.Context, prefix string, skip, limit int) ([]byte, bool, error) {
	m.getCalls++
	data, ok := m.pages[pageKeyForTest(prefix, skip, limit)]
	return data, ok, nil
}

func (m *mockListingCache) SetPage(ctx context.Context, prefix string, skip, limit int, v interface{}) error {
	m.setCalls++
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.pages[pageKeyForTest(prefix, skip, limit)] = data
	return nil
}

func (m *mockListingCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	m.invalidateCalls = append(m.invalidateCalls, prefix)
	for k := range m.pages {
		delete(m.pages, k)
	}
	return nil
}

func pageKeyForTest(prefix string, skip, limit int) string {
	return fmt.Sprintf("%s%d:%d", prefix, skip, limit)
}

type mockPublisher struct {
	events []queue.ActivityEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	m.events = append(m.events, event)
	if m.err != nil {
		return "", m.err
	}
	return "1-0", nil
}

func newProfileService(profiles *mockProfileRepository, users *mockUserRepository, listing *mockListingCache, pub *mockPublisher) *ProfileService {
	return NewProfileService(profiles, users, listing, pub)
}

func existingProfile(userID int64) *model.Profile {
	return &model.Profile{ID: 1, UserID: userID, Handle: "johndoe", Status: "Developer"}
}

func TestProfileService_Upsert_Create(t *testing.T) {
	mockRepo := &mockProfileRepository{}
	pub := &mockPublisher{}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), pub)

	// first GetByUserID misses (no profile yet), post-create read succeeds
	calls := 0
	mockRepo.getByUserIDFn = func(ctx context.Context, userID int64) (*model.Profile, error) {
		calls++
		if calls == 1 {
			return nil, model.ErrProfileNotFound
		}
		return existingProfile(userID), nil
	}

	req := &model.ProfileRequest{
		Handle: "johndoe",
		Status: "Developer",
		Skills: "Go,SQL, Redis",
	}

	profile, err := svc.Upsert(context.Background(), 42, req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if profile == nil {
		t.Fatal("expected profile, got nil")
	}

	if len(mockRepo.createCalls) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(mockRepo.createCalls))
	}
	if len(mockRepo.updateCalls) != 0 {
		t.Errorf("expected no update calls, got %d", len(mockRepo.updateCalls))
	}

	created := mockRepo.createCalls[0]
	wantSkills := []string{"Go", "SQL", " Redis"} // split only, no trimming
	if len(created.Skills) != len(wantSkills) {
		t.Fatalf("skills = %v, want %v", created.Skills, wantSkills)
	}
	for i := range wantSkills {
		if created.Skills[i] != wantSkills[i] {
			t.Errorf("skills[%d] = %q, want %q", i, created.Skills[i], wantSkills[i])
		}
	}

	if len(pub.events) != 1 || pub.events[0].Type != queue.EventProfileChanged {
		t.Errorf("expected one profile_changed event, got %v", pub.events)
	}
}

func TestProfileService_Upsert_Update(t *testing.T) {
	mockRepo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return existingProfile(userID), nil
		},
		// caller already owns the handle; resubmitting it is fine
		handleOwnerFn: func(ctx context.Context, handle string) (int64, error) {
			return 42, nil
		},
	}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.Upsert(context.Background(), 42, &model.ProfileRequest{
		Handle: "johndoe",
		Status: "Senior Developer",
		Skills: "Go",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mockRepo.updateCalls) != 1 {
		t.Fatalf("expected 1 update call, got %d", len(mockRepo.updateCalls))
	}
	if len(mockRepo.createCalls) != 0 {
		t.Errorf("expected no create calls, got %d", len(mockRepo.createCalls))
	}
}

func TestProfileService_Upsert_HandleTaken(t *testing.T) {
	mockRepo := &mockProfileRepository{
		handleOwnerFn: func(ctx context.Context, handle string) (int64, error) {
			return 99, nil // different user owns it
		},
	}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.Upsert(context.Background(), 42, &model.ProfileRequest{
		Handle: "johndoe",
		Status: "Developer",
		Skills: "Go",
	})
	if !errors.Is(err, model.ErrHandleTaken) {
		t.Errorf("expected ErrHandleTaken, got: %v", err)
	}
	if len(mockRepo.createCalls)+len(mockRepo.updateCalls) != 0 {
		t.Error("no write should happen on a handle conflict")
	}
}

func TestProfileService_Upsert_SocialURLNormalization(t *testing.T) {
	mockRepo := &mockProfileRepository{}
	calls := 0
	mockRepo.getByUserIDFn = func(ctx context.Context, userID int64) (*model.Profile, error) {
		calls++
		if calls == 1 {
			return nil, model.ErrProfileNotFound
		}
		return existingProfile(userID), nil
	}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.Upsert(context.Background(), 42, &model.ProfileRequest{
		Handle:  "johndoe",
		Status:  "Developer",
		Skills:  "Go",
		Twitter: "twitter.com/johndoe",
		Youtube: "https://youtube.com/@johndoe",
		Website: "http://johndoe.dev",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	created := mockRepo.createCalls[0]
	if created.Social.Twitter == nil || *created.Social.Twitter != "https://twitter.com/johndoe" {
		t.Errorf("twitter = %v, want scheme prepended", created.Social.Twitter)
	}
	if created.Social.Youtube == nil || *created.Social.Youtube != "https://youtube.com/@johndoe" {
		t.Errorf("youtube = %v, want unchanged", created.Social.Youtube)
	}
	if created.Website == nil || *created.Website != "http://johndoe.dev" {
		t.Errorf("website = %v, want unchanged http URL", created.Website)
	}
	if created.Social.Facebook != nil {
		t.Errorf("facebook = %v, want nil for empty input", created.Social.Facebook)
	}
}

func TestProfileService_AddExperience_NoProfile(t *testing.T) {
	mockRepo := &mockProfileRepository{}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.AddExperience(context.Background(), 42, &model.ExperienceRequest{
		Title:   "Engineer",
		Company: "Acme",
		From:    "2020-01-01",
	})
	if !errors.Is(err, model.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got: %v", err)
	}
	if len(mockRepo.addExpCalls) != 0 {
		t.Error("no experience should be added without a profile")
	}
}

func TestProfileService_AddExperience(t *testing.T) {
	mockRepo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return existingProfile(userID), nil
		},
	}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.AddExperience(context.Background(), 42, &model.ExperienceRequest{
		Title:   "Engineer",
		Company: "Acme",
		From:    "2020-01-01",
		Current: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mockRepo.addExpCalls) != 1 {
		t.Fatalf("expected 1 add call, got %d", len(mockRepo.addExpCalls))
	}
	exp := mockRepo.addExpCalls[0]
	if exp.ID == "" {
		t.Error("expected a generated id")
	}
	if exp.ProfileID != 1 {
		t.Errorf("profile id = %d, want 1", exp.ProfileID)
	}
	if exp.Location != nil {
		t.Errorf("location = %v, want nil for empty input", exp.Location)
	}
}

func TestProfileService_RemoveExperience_NotFound(t *testing.T) {
	mockRepo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return existingProfile(userID), nil
		},
		removeExpErr: model.ErrExperienceNotFound,
	}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.RemoveExperience(context.Background(), 42, "9a0e6c2d-3a55-4c1e-8f38-6f3d2b1f0c44")
	if !errors.Is(err, model.ErrExperienceNotFound) {
		t.Errorf("expected ErrExperienceNotFound, got: %v", err)
	}
}

func TestProfileService_RemoveExperience_MalformedID(t *testing.T) {
	// Sub-record ids are uuids in the database; a non-uuid id must come
	// back as not-found without reaching the store, where it would be a
	// type error instead.
	mockRepo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return existingProfile(userID), nil
		},
		removeExpErr: errors.New(`pq: invalid input syntax for type uuid: "not-a-uuid"`),
	}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.RemoveExperience(context.Background(), 42, "not-a-uuid")
	if !errors.Is(err, model.ErrExperienceNotFound) {
		t.Errorf("expected ErrExperienceNotFound, got: %v", err)
	}
	if len(mockRepo.removeExpCalls) != 0 {
		t.Error("remove should not run for a malformed id")
	}
}

func TestProfileService_RemoveEducation_MalformedID(t *testing.T) {
	mockRepo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return existingProfile(userID), nil
		},
		removeEduErr: errors.New(`pq: invalid input syntax for type uuid: "not-a-uuid"`),
	}
	svc := newProfileService(mockRepo, &mockUserRepository{}, newMockListingCache(), &mockPublisher{})

	_, err := svc.RemoveEducation(context.Background(), 42, "not-a-uuid")
	if !errors.Is(err, model.ErrEducationNotFound) {
		t.Errorf("expected ErrEducationNotFound, got: %v", err)
	}
	if len(mockRepo.removeEduCalls) != 0 {
		t.Error("remove should not run for a malformed id")
	}
}

func TestProfileService_DeleteAccount(t *testing.T) {
	avatarKey := "avatars/abc.jpg"
	userRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, AvatarKey: &avatarKey}, nil
		},
	}
	profileRepo := &mockProfileRepository{}
	pub := &mockPublisher{}
	svc := newProfileService(profileRepo, userRepo, newMockListingCache(), pub)

	if err := svc.DeleteAccount(context.Background(), 42); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(profileRepo.deleteCalls) != 1 || profileRepo.deleteCalls[0] != 42 {
		t.Errorf("profile delete calls = %v, want [42]", profileRepo.deleteCalls)
	}
	if len(userRepo.deleteCalls) != 1 || userRepo.deleteCalls[0] != 42 {
		t.Errorf("user delete calls = %v, want [42]", userRepo.deleteCalls)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	if pub.events[0].Type != queue.EventAccountDeleted {
		t.Errorf("event type = %s, want %s", pub.events[0].Type, queue.EventAccountDeleted)
	}
	if pub.events[0].AvatarKey != avatarKey {
		t.Errorf("avatar key = %q, want %q", pub.events[0].AvatarKey, avatarKey)
	}
}

func TestProfileService_DeleteAccount_PublishFailureIgnored(t *testing.T) {
	userRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
	pub := &mockPublisher{err: errors.New("stream down")}
	svc := newProfileService(&mockProfileRepository{}, userRepo, newMockListingCache(), pub)

	if err := svc.DeleteAccount(context.Background(), 42); err != nil {
		t.Fatalf("publish failure must not fail the request, got: %v", err)
	}
}

func TestProfileService_All_CacheMissThenHit(t *testing.T) {
	repoCalls := 0
	mockRepo := &mockProfileRepository{
		getAllFn: func(ctx context.Context, skip, limit int) ([]model.Profile, error) {
			repoCalls++
			return []model.Profile{*existingProfile(42)}, nil
		},
	}
	listing := newMockListingCache()
	svc := newProfileService(mockRepo, &mockUserRepository{}, listing, &mockPublisher{})

	first, err := svc.All(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if repoCalls != 1 {
		t.Fatalf("expected 1 repo call after miss, got %d", repoCalls)
	}
	if listing.setCalls != 1 {
		t.Errorf("expected the page to be cached, set calls = %d", listing.setCalls)
	}

	second, err := svc.All(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if repoCalls != 1 {
		t.Errorf("expected cache hit to skip the repo, calls = %d", repoCalls)
	}
	if string(first) != string(second) {
		t.Errorf("cached page differs from rendered page")
	}
}
