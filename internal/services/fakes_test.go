package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------- user repository ----------

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}}
}

func (r *fakeUserRepo) add(user domain.User) *domain.User {
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	} else if user.ID > r.nextID {
		r.nextID = user.ID
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := user
	r.users[stored.ID] = &stored
	return &stored
}

func (r *fakeUserRepo) CreateUser(user *domain.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) SaveUser(user *domain.User) error {
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindUserByNationalID(nationalID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.NationalID == nationalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindUserByID(userID uint) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ListUsers(status *domain.Status) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if status != nil && u.Status != *status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) RegisterUser(user *domain.User, profile *domain.Profile, uploadScan func(userID uint) (string, error)) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()

	scanURL, err := uploadScan(user.ID)
	if err != nil {
		// rollback
		r.nextID--
		user.ID = 0
		return err
	}
	user.NationalIDScan = scanURL

	stored := *user
	r.users[user.ID] = &stored
	profile.UserID = user.ID
	return nil
}

func (r *fakeUserRepo) UpdateUserInTx(userID uint, fn func(user *domain.User) error) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	if err := fn(&cp); err != nil {
		return nil, err
	}
	*u = cp
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) CountUsers() (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountByStatus(status domain.Status) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) CountByRole(role domain.Role) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) CountByEmailVerified(verified bool) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.EmailVerified == verified {
			n++
		}
	}
	return n, nil
}

// ---------- profile repository ----------

type fakeProfileRepo struct {
	profiles map[uint]*domain.Profile // keyed by user id
	userRepo *fakeUserRepo
	nextID   uint
}

func newFakeProfileRepo(userRepo *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uint]*domain.Profile{}, userRepo: userRepo}
}

func (r *fakeProfileRepo) add(profile domain.Profile) *domain.Profile {
	if profile.ID == 0 {
		r.nextID++
		profile.ID = r.nextID
	}
	stored := profile
	r.profiles[profile.UserID] = &stored
	return &stored
}

func (r *fakeProfileRepo) SaveProfile(profile *domain.Profile) error {
	if profile.ID == 0 {
		r.nextID++
		profile.ID = r.nextID
	}
	stored := *profile
	r.profiles[profile.UserID] = &stored
	return nil
}

func (r *fakeProfileRepo) FindByUserID(userID uint) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) ListPublicApprovedStudents() ([]domain.Profile, error) {
	var out []domain.Profile
	for userID, p := range r.profiles {
		u, ok := r.userRepo.users[userID]
		if !ok {
			continue
		}
		if u.Status != domain.StatusApproved || u.Role != domain.RoleStudent ||
			p.Visibility != domain.VisibilityPublic {
			continue
		}
		cp := *p
		cp.User = *u
		out = append(out, cp)
	}
	return out, nil
}

func (r *fakeProfileRepo) UpdateWithUser(userID uint, fn func(user *domain.User, profile *domain.Profile) error) (*domain.User, *domain.Profile, error) {
	u, ok := r.userRepo.users[userID]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}

	userCp := *u
	profileCp := *p
	if err := fn(&userCp, &profileCp); err != nil {
		return nil, nil, err
	}
	*u = userCp
	*p = profileCp

	userOut := userCp
	profileOut := profileCp
	return &userOut, &profileOut, nil
}

// ---------- academic repository ----------

type fakeAcademicRepo struct {
	faculties   map[uint]*domain.Faculty
	departments map[uint]*domain.Department
}

func newFakeAcademicRepo() *fakeAcademicRepo {
	return &fakeAcademicRepo{
		faculties:   map[uint]*domain.Faculty{},
		departments: map[uint]*domain.Department{},
	}
}

func (r *fakeAcademicRepo) addFaculty(f domain.Faculty) {
	cp := f
	r.faculties[f.ID] = &cp
}

func (r *fakeAcademicRepo) addDepartment(d domain.Department) {
	cp := d
	r.departments[d.ID] = &cp
}

func (r *fakeAcademicRepo) ListFaculties() ([]domain.Faculty, error) {
	var out []domain.Faculty
	for _, f := range r.faculties {
		out = append(out, *f)
	}
	return out, nil
}

func (r *fakeAcademicRepo) FindFacultyByID(facultyID uint) (*domain.Faculty, error) {
	f, ok := r.faculties[facultyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeAcademicRepo) ListDepartments() ([]domain.Department, error) {
	var out []domain.Department
	for _, d := range r.departments {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeAcademicRepo) ListDepartmentsByFaculty(facultyID uint) ([]domain.Department, error) {
	var out []domain.Department
	for _, d := range r.departments {
		if d.FacultyID == facultyID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeAcademicRepo) FindDepartmentByID(departmentID uint) (*domain.Department, error) {
	d, ok := r.departments[departmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeAcademicRepo) CountFaculties() (int64, error) {
	return int64(len(r.faculties)), nil
}

func (r *fakeAcademicRepo) CreateFaculty(faculty *domain.Faculty) error {
	r.addFaculty(*faculty)
	return nil
}

func (r *fakeAcademicRepo) CreateDepartment(department *domain.Department) error {
	r.addDepartment(*department)
	return nil
}

// ---------- moderation repository ----------

type fakeModerationRepo struct {
	words   []domain.BannedWord
	flagged []domain.FlaggedContent
	nextID  uint

	// createErr, when set, is returned by CreateBannedWord.
	createErr error
}

func newFakeModerationRepo(words ...string) *fakeModerationRepo {
	r := &fakeModerationRepo{}
	for _, w := range words {
		r.nextID++
		r.words = append(r.words, domain.BannedWord{ID: r.nextID, Word: w, AddedAt: time.Now()})
	}
	return r
}

func (r *fakeModerationRepo) ListBannedWords() ([]domain.BannedWord, error) {
	return append([]domain.BannedWord{}, r.words...), nil
}

func (r *fakeModerationRepo) FindBannedWord(word string) (*domain.BannedWord, error) {
	for _, w := range r.words {
		if w.Word == word {
			cp := w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeModerationRepo) FindBannedWordByID(wordID uint) (*domain.BannedWord, error) {
	for _, w := range r.words {
		if w.ID == wordID {
			cp := w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeModerationRepo) CreateBannedWord(word *domain.BannedWord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	word.ID = r.nextID
	word.AddedAt = time.Now()
	r.words = append(r.words, *word)
	return nil
}

func (r *fakeModerationRepo) DeleteBannedWord(wordID uint) error {
	for i, w := range r.words {
		if w.ID == wordID {
			r.words = append(r.words[:i], r.words[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeModerationRepo) CreateFlaggedContent(fc *domain.FlaggedContent) error {
	r.nextID++
	fc.ID = r.nextID
	fc.FlaggedAt = time.Now()
	r.flagged = append(r.flagged, *fc)
	return nil
}

func (r *fakeModerationRepo) ListFlaggedContent() ([]domain.FlaggedContent, error) {
	return append([]domain.FlaggedContent{}, r.flagged...), nil
}

// ---------- file storage ----------

type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
	failErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (s *fakeStorage) UploadProfilePhoto(_ context.Context, userID uint, file dto.UploadFile) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	url := fmt.Sprintf("http://files.local/campuscard/%d/profile_photo.jpg", userID)
	s.uploads[url] = file.Bytes
	return url, nil
}

func (s *fakeStorage) UploadNationalIDScan(_ context.Context, userID uint, file dto.UploadFile) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	url := fmt.Sprintf("http://files.local/campuscard/%d/national_id_scan.jpg", userID)
	s.uploads[url] = file.Bytes
	return url, nil
}

func (s *fakeStorage) Delete(_ context.Context, objectURL string) error {
	s.deleted = append(s.deleted, objectURL)
	delete(s.uploads, objectURL)
	return nil
}

// ---------- producer ----------

type fakeProducer struct {
	keys   []string
	values [][]byte
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	p.keys = append(p.keys, string(key))
	p.values = append(p.values, value)
	return nil
}
