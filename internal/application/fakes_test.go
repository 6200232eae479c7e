package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/infrastructure/search"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

// memDB is an in-memory UnitOfWork. Do snapshots every table and restores
// the snapshot when fn fails, mimicking a rollback.
type memDB struct {
	users     map[string]entity.User
	codes     map[string]entity.VerificationCode
	themes    map[int64]entity.Theme
	levels    map[int64]entity.Level
	questions map[int64]entity.Question
	seq       int64
	nextUser  int

	failUpdate error
	commits    int
	rollbacks  int
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[string]entity.User{},
		codes:     map[string]entity.VerificationCode{},
		themes:    map[int64]entity.Theme{},
		levels:    map[int64]entity.Level{},
		questions: map[int64]entity.Question{},
	}
}

func (m *memDB) Users() repository.UserRepository             { return memUsers{m} }
func (m *memDB) Codes() repository.VerificationCodeRepository { return memCodes{m} }
func (m *memDB) Content() repository.ContentRepository        { return memContent{m} }

func (m *memDB) Do(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	users, codes := maps.Clone(m.users), maps.Clone(m.codes)
	themes, levels, questions := maps.Clone(m.themes), maps.Clone(m.levels), maps.Clone(m.questions)
	if err := fn(ctx, m); err != nil {
		m.users, m.codes = users, codes
		m.themes, m.levels, m.questions = themes, levels, questions
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

func (m *memDB) put(u entity.User) *entity.User {
	if u.ID == "" {
		m.nextUser++
		u.ID = fmt.Sprintf("user-%d", m.nextUser)
	}
	m.users[u.ID] = u
	return &u
}

func (m *memDB) user(id string) entity.User { return m.users[id] }

type memUsers struct{ m *memDB }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	for _, x := range r.m.users {
		if strings.EqualFold(x.Email, u.Email) || strings.EqualFold(x.Pseudo, u.Pseudo) {
			return repository.ErrDuplicate
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	*u = *r.m.put(*u)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) Taken(_ context.Context, email, pseudo string) (bool, bool, error) {
	var e, p bool
	for _, u := range r.m.users {
		e = e || strings.EqualFold(u.Email, email)
		p = p || strings.EqualFold(u.Pseudo, pseudo)
	}
	return e, p, nil
}

func (r memUsers) PseudoTakenByOther(_ context.Context, pseudo, userID string) (bool, error) {
	for _, u := range r.m.users {
		if u.ID != userID && strings.EqualFold(u.Pseudo, pseudo) {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	if r.m.failUpdate != nil {
		return r.m.failUpdate
	}
	if _, ok := r.m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) modify(id string, fn func(u *entity.User)) error {
	u, ok := r.m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&u)
	r.m.users[id] = u
	return nil
}

func (r memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return r.modify(id, func(u *entity.User) { u.Password = hash })
}

func (r memUsers) UpdateFCMToken(_ context.Context, id string, token *string) error {
	return r.modify(id, func(u *entity.User) { u.FCMToken = token })
}

func (r memUsers) Activate(ctx context.Context, email string) (*entity.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	u.Verified, u.Status = entity.VerifiedYes, entity.StatusActive
	r.m.users[u.ID] = *u
	return u, nil
}

func (r memUsers) SoftDelete(_ context.Context, id string) error {
	u, ok := r.m.users[id]
	if !ok || u.IsDeleted {
		return repository.ErrNotFound
	}
	u.IsDeleted = true
	r.m.users[id] = u
	return nil
}

func (r memUsers) DeleteByEmail(ctx context.Context, email string) error {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	delete(r.m.users, u.ID)
	return nil
}

func (r memUsers) List(_ context.Context, f repository.UserFilter) ([]entity.User, int, error) {
	var out []entity.User
	for _, u := range r.m.users {
		if f.Email == "" || strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.Email)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:min(len(out), f.Offset+f.Limit)]
	} else {
		out = nil
	}
	return out, total, nil
}

func (r memUsers) CountActive(context.Context) (int, error) {
	n := 0
	for _, u := range r.m.users {
		if u.Status == entity.StatusActive && !u.IsDeleted {
			n++
		}
	}
	return n, nil
}

type memCodes struct{ m *memDB }

func (r memCodes) Upsert(_ context.Context, c *entity.VerificationCode) error {
	r.m.seq++
	c.ID = r.m.seq
	r.m.codes[c.Email] = *c
	return nil
}

func (r memCodes) GetByEmailForUpdate(_ context.Context, email string) (*entity.VerificationCode, error) {
	c, ok := r.m.codes[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r memCodes) DeleteByEmail(_ context.Context, email string) error {
	delete(r.m.codes, email)
	return nil
}

type memContent struct{ m *memDB }

func (r memContent) next() int64 {
	r.m.seq++
	return r.m.seq
}

func (r memContent) ListThemes(_ context.Context, activeOnly bool) ([]entity.Theme, error) {
	out := []entity.Theme{}
	for _, t := range r.m.themes {
		if !activeOnly || t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r memContent) GetTheme(_ context.Context, id int64) (*entity.Theme, error) {
	t, ok := r.m.themes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r memContent) CreateTheme(_ context.Context, t *entity.Theme) error {
	t.ID = r.next()
	r.m.themes[t.ID] = *t
	return nil
}

func (r memContent) UpdateTheme(_ context.Context, t *entity.Theme) error {
	if _, ok := r.m.themes[t.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.themes[t.ID] = *t
	return nil
}

func (r memContent) DeleteTheme(_ context.Context, id int64) error {
	if _, ok := r.m.themes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.themes, id)
	for lid, l := range r.m.levels {
		if l.ThemeID == id {
			delete(r.m.levels, lid)
			for qid, q := range r.m.questions {
				if q.LevelID == lid {
					delete(r.m.questions, qid)
				}
			}
		}
	}
	return nil
}

func (r memContent) ListLevels(_ context.Context, themeID *int64, activeOnly bool) ([]entity.Level, error) {
	out := []entity.Level{}
	for _, l := range r.m.levels {
		if (themeID == nil || l.ThemeID == *themeID) && (!activeOnly || l.IsActive) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r memContent) GetLevel(_ context.Context, id int64) (*entity.Level, error) {
	l, ok := r.m.levels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r memContent) CreateLevel(_ context.Context, l *entity.Level) error {
	l.ID = r.next()
	r.m.levels[l.ID] = *l
	return nil
}

func (r memContent) UpdateLevel(_ context.Context, l *entity.Level) error {
	if _, ok := r.m.levels[l.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.levels[l.ID] = *l
	return nil
}

func (r memContent) DeleteLevel(_ context.Context, id int64) error {
	if _, ok := r.m.levels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.levels, id)
	return nil
}

func (r memContent) ListQuestions(_ context.Context, levelID *int64, activeOnly bool) ([]entity.Question, error) {
	out := []entity.Question{}
	for _, q := range r.m.questions {
		if (levelID == nil || q.LevelID == *levelID) && (!activeOnly || q.IsActive) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r memContent) GetQuestion(_ context.Context, id int64) (*entity.Question, error) {
	q, ok := r.m.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &q, nil
}

func (r memContent) CreateQuestion(_ context.Context, q *entity.Question) error {
	q.ID = r.next()
	r.m.questions[q.ID] = *q
	return nil
}

func (r memContent) UpdateQuestion(_ context.Context, q *entity.Question) error {
	if _, ok := r.m.questions[q.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.questions[q.ID] = *q
	return nil
}

func (r memContent) DeleteQuestion(_ context.Context, id int64) error {
	if _, ok := r.m.questions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.questions, id)
	return nil
}

func (r memContent) Counts(context.Context) (repository.ContentCounts, error) {
	return repository.ContentCounts{Themes: len(r.m.themes), Levels: len(r.m.levels), Questions: len(r.m.questions)}, nil
}

type memSessions struct {
	items map[string]helpers.Session
}

func newMemSessions() *memSessions { return &memSessions{items: map[string]helpers.Session{}} }

func (s *memSessions) Save(_ context.Context, sid string, sess helpers.Session, _ time.Duration) error {
	s.items[helpers.KeySession(sess.UserID, sid)] = sess
	return nil
}

func (s *memSessions) Get(_ context.Context, uid, sid string) (*helpers.Session, bool, error) {
	sess, ok := s.items[helpers.KeySession(uid, sid)]
	if !ok {
		return nil, false, nil
	}
	return &sess, true, nil
}

func (s *memSessions) Delete(_ context.Context, uid, sid string) error {
	delete(s.items, helpers.KeySession(uid, sid))
	return nil
}

func (s *memSessions) DeleteAll(_ context.Context, uid string) error {
	for k, sess := range s.items {
		if sess.UserID == uid {
			delete(s.items, k)
		}
	}
	return nil
}

type sentCode struct {
	Name string
	Code entity.VerificationCode
}

type fakeNotifier struct {
	codes    []sentCode
	welcomed []string
}

func (n *fakeNotifier) SendCode(_ context.Context, name string, c *entity.VerificationCode) {
	n.codes = append(n.codes, sentCode{Name: name, Code: *c})
}

func (n *fakeNotifier) SendWelcome(_ context.Context, u *entity.User) {
	n.welcomed = append(n.welcomed, u.Email)
}

func (n *fakeNotifier) last() entity.VerificationCode { return n.codes[len(n.codes)-1].Code }

type fakeIndexer struct {
	indexed map[string]entity.User
	deleted []string
	err     error
}

func newFakeIndexer() *fakeIndexer { return &fakeIndexer{indexed: map[string]entity.User{}} }

func (f *fakeIndexer) Index(_ context.Context, u *entity.User) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[u.ID] = *u
	return nil
}

func (f *fakeIndexer) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, q string, _ int) ([]search.UserDoc, error) {
	var out []search.UserDoc
	for _, u := range f.indexed {
		if strings.Contains(u.Email, q) || strings.Contains(u.Pseudo, q) {
			out = append(out, search.UserDoc{ID: u.ID, Email: u.Email, Pseudo: u.Pseudo})
		}
	}
	return out, nil
}

type storedObject struct {
	UserID, Side, Filename, ContentType string
	Data                                []byte
}

type fakeStore struct {
	objects []storedObject
	err     error
}

func (s *fakeStore) Put(_ context.Context, userID, side, filename, contentType string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, _ := io.ReadAll(r)
	s.objects = append(s.objects, storedObject{userID, side, filename, contentType, b})
	return "https://storage.test/" + userID + "/" + side, nil
}

type fakeRecognizer struct {
	pages  []entity.DocumentImage
	result *entity.RecognitionResult
	err    error
}

func (f *fakeRecognizer) Recognize(_ context.Context, images []entity.DocumentImage) (*entity.RecognitionResult, error) {
	f.pages = images
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var errBoom = errors.New("boom")

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
