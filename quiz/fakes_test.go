package quiz

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/adamspd/QuizTrack/models"
)

type fakeGate struct {
	userID string
	role   string
}

func (g fakeGate) CurrentUserID(ctx context.Context) (string, error) {
	if g.userID == "" {
		return "", Unauthenticated("no session")
	}
	return g.userID, nil
}

func (g fakeGate) CurrentRole(ctx context.Context) (string, error) {
	if g.userID == "" {
		return "", Unauthenticated("no session")
	}
	return g.role, nil
}

func studentGate(id string) fakeGate { return fakeGate{userID: id, role: models.RoleStudent} }
func adminGate() fakeGate            { return fakeGate{userID: "admin-1", role: models.RoleAdmin} }

var errBroken = errors.New("connection refused")

// memStore implements every store interface over maps.
type memStore struct {
	mu        sync.Mutex
	quizzes   map[string]models.Quiz
	questions map[string]models.Question
	results   []models.Result
	attempts  map[string]models.Attempt
	users     map[string]models.User

	failInsert bool
	failList   bool
	inserts    int
	rankWrites []map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		quizzes:   make(map[string]models.Quiz),
		questions: make(map[string]models.Question),
		attempts:  make(map[string]models.Attempt),
		users:     make(map[string]models.User),
	}
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// seedQuiz adds a quiz whose questions have the given correct options, ids
// prefix+"q1".."qN".
func (m *memStore) seedQuiz(id, title string, active bool, correct ...string) {
	m.quizzes[id] = models.Quiz{ID: id, Title: title, Level: models.LevelEasy, Active: active, CreatedAt: baseTime}
	for i, c := range correct {
		qid := "q" + string(rune('1'+i))
		if id != "algebra" {
			qid = id + "-" + qid
		}
		m.questions[qid] = models.Question{
			ID: qid, QuizID: id, QuestionText: "question " + qid,
			OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
			CorrectOption: c,
			CreatedAt:     baseTime.Add(time.Duration(i) * time.Second),
		}
	}
}

func (m *memStore) GetQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[quizID]
	if !ok {
		return nil, NotFound("quiz %s not found", quizID)
	}
	return &q, nil
}

func (m *memStore) GetQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Question
	for _, q := range m.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListQuizzes(ctx context.Context, activeOnly bool) ([]models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errBroken
	}
	var out []models.Quiz
	for _, q := range m.quizzes {
		if activeOnly && !q.Active {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) CreateQuiz(ctx context.Context, quiz *models.Quiz, questions []models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[quiz.ID] = *quiz
	for _, q := range questions {
		m.questions[q.ID] = q
	}
	return nil
}

func (m *memStore) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[quiz.ID]; !ok {
		return NotFound("quiz %s not found", quiz.ID)
	}
	m.quizzes[quiz.ID] = *quiz
	return nil
}

func (m *memStore) DeleteQuiz(ctx context.Context, quizID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[quizID]; !ok {
		return NotFound("quiz %s not found", quizID)
	}
	delete(m.quizzes, quizID)
	for id, q := range m.questions {
		if q.QuizID == quizID {
			delete(m.questions, id)
		}
	}
	return nil
}

func (m *memStore) GetQuestion(ctx context.Context, questionID string) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[questionID]
	if !ok {
		return nil, NotFound("question %s not found", questionID)
	}
	return &q, nil
}

func (m *memStore) CreateQuestion(ctx context.Context, question *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions[question.ID] = *question
	return nil
}

func (m *memStore) UpdateQuestion(ctx context.Context, question *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions[question.ID] = *question
	return nil
}

func (m *memStore) DeleteQuestion(ctx context.Context, questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[questionID]; !ok {
		return NotFound("question %s not found", questionID)
	}
	delete(m.questions, questionID)
	return nil
}

func (m *memStore) InsertResult(ctx context.Context, r *models.Result) (*models.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert {
		return nil, false, errBroken
	}
	if r.AttemptID != "" {
		for _, existing := range m.results {
			if existing.AttemptID == r.AttemptID {
				e := existing
				return &e, false, nil
			}
		}
	}
	m.inserts++
	m.results = append(m.results, *r)
	stored := *r
	return &stored, true, nil
}

func (m *memStore) ListResultsByUser(ctx context.Context, userID string) ([]models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Result
	for _, r := range m.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListResultsByQuiz(ctx context.Context, quizID string) ([]models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Result
	for _, r := range m.results {
		if r.QuizID == quizID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) CreateAttempt(ctx context.Context, attempt *models.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *attempt
	snapshot.Questions = append([]models.Question(nil), attempt.Questions...)
	m.attempts[attempt.ID] = snapshot
	return nil
}

func (m *memStore) GetAttempt(ctx context.Context, attemptID string) (*models.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return nil, NotFound("attempt %s not found", attemptID)
	}
	return &a, nil
}

func (m *memStore) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, NotFound("user %s not found", userID)
	}
	return &u, nil
}

func (m *memStore) ListStudents(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if u.Role == models.RoleStudent {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) DeleteUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	kept := m.results[:0]
	for _, r := range m.results {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	m.results = kept
	return nil
}

func (m *memStore) ListStudentTotals(ctx context.Context) ([]models.StudentTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.StudentTotals
	for _, u := range m.users {
		if u.Role != models.RoleStudent {
			continue
		}
		t := models.StudentTotals{UserID: u.ID, SignedUpAt: u.CreatedAt}
		for _, r := range m.results {
			if r.UserID == u.ID {
				t.Attempts++
				t.PercentageSum += r.Percentage
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) UpdateRanks(ctx context.Context, ranks map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rank := range ranks {
		u := m.users[id]
		u.Rank = rank
		m.users[id] = u
	}
	m.rankWrites = append(m.rankWrites, ranks)
	return nil
}

func (m *memStore) QuizReports(ctx context.Context) ([]models.QuizReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.QuizReport
	for _, q := range m.quizzes {
		rep := models.QuizReport{Quiz: q}
		for _, qq := range m.questions {
			if qq.QuizID == q.ID {
				rep.QuestionCount++
			}
		}
		sum := 0.0
		for _, r := range m.results {
			if r.QuizID == q.ID {
				rep.AttemptCount++
				sum += r.Percentage
			}
		}
		if rep.AttemptCount > 0 {
			rep.AveragePercentage = sum / float64(rep.AttemptCount)
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type countingRefresher struct {
	calls int
	err   error
}

func (c *countingRefresher) RequestRankRecompute(ctx context.Context) error {
	c.calls++
	return c.err
}

// steppingClock returns times one minute apart.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}
