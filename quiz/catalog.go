package quiz

import (
	"context"
	"strings"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/utils"
)

// CatalogService is the admin side of quiz and question management.
type CatalogService struct {
	gate    Gate
	catalog CatalogStore
	now     func() time.Time
}

func NewCatalogService(gate Gate, catalog CatalogStore) *CatalogService {
	return &CatalogService{gate: gate, catalog: catalog, now: time.Now}
}

// QuizDetail is a quiz with its questions, answer key included.
type QuizDetail struct {
	models.Quiz
	Questions []models.Question `json:"questions"`
}

func (s *CatalogService) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	if _, err := requireAdmin(ctx, s.gate); err != nil {
		return nil, err
	}
	quizzes, err := s.catalog.ListQuizzes(ctx, false)
	if err != nil {
		return nil, StoreFailure("list quizzes", err)
	}
	return quizzes, nil
}

func (s *CatalogService) GetQuiz(ctx context.Context, quizID string) (*QuizDetail, error) {
	if _, err := requireAdmin(ctx, s.gate); err != nil {
		return nil, err
	}
	quiz, err := s.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, StoreFailure("load quiz", err)
	}
	questions, err := s.catalog.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, StoreFailure("load questions", err)
	}
	quiz.QuestionCount = len(questions)
	return &QuizDetail{Quiz: *quiz, Questions: questions}, nil
}

// CreateQuiz stores a quiz and its initial questions together. New quizzes
// are active unless the request says otherwise.
func (s *CatalogService) CreateQuiz(ctx context.Context, req models.QuizRequest) (*QuizDetail, error) {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return nil, err
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return nil, Validation("invalid quiz", fields)
	}

	created := s.now().UTC()
	quiz := &models.Quiz{
		ID:          utils.NewID(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Level:       req.Level,
		Active:      true,
		CreatedAt:   created,
	}
	if req.Active != nil {
		quiz.Active = *req.Active
	}

	questions := make([]models.Question, 0, len(req.Questions))
	for i, qr := range req.Questions {
		// Keep creation order stable for questions created in one request.
		q := newQuestion(quiz.ID, qr, created.Add(time.Duration(i)*time.Microsecond))
		if err := ValidateQuestionForGrading(q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err := s.catalog.CreateQuiz(ctx, quiz, questions); err != nil {
		return nil, StoreFailure("create quiz", err)
	}
	quiz.QuestionCount = len(questions)

	utils.LogInfo("Admin %s created quiz %s (%q, %d questions)", adminID, quiz.ID, quiz.Title, len(questions))
	return &QuizDetail{Quiz: *quiz, Questions: questions}, nil
}

func (s *CatalogService) UpdateQuiz(ctx context.Context, quizID string, req models.QuizUpdateRequest) (*models.Quiz, error) {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return nil, err
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return nil, Validation("invalid quiz", fields)
	}

	quiz, err := s.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, StoreFailure("load quiz", err)
	}
	if req.Title != nil {
		quiz.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		quiz.Description = strings.TrimSpace(*req.Description)
	}
	if req.Level != nil {
		quiz.Level = *req.Level
	}
	if req.Active != nil {
		quiz.Active = *req.Active
	}

	if err := s.catalog.UpdateQuiz(ctx, quiz); err != nil {
		return nil, StoreFailure("update quiz", err)
	}
	utils.LogInfo("Admin %s updated quiz %s", adminID, quiz.ID)
	return quiz, nil
}

// ToggleActive flips whether students can see and take the quiz.
func (s *CatalogService) ToggleActive(ctx context.Context, quizID string) (*models.Quiz, error) {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return nil, err
	}
	quiz, err := s.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, StoreFailure("load quiz", err)
	}
	quiz.Active = !quiz.Active
	if err := s.catalog.UpdateQuiz(ctx, quiz); err != nil {
		return nil, StoreFailure("update quiz", err)
	}
	utils.LogInfo("Admin %s set quiz %s active=%t", adminID, quiz.ID, quiz.Active)
	return quiz, nil
}

// DeleteQuiz removes the quiz and its questions. Results keep their quiz_id.
func (s *CatalogService) DeleteQuiz(ctx context.Context, quizID string) error {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteQuiz(ctx, quizID); err != nil {
		return StoreFailure("delete quiz", err)
	}
	utils.LogInfo("Admin %s deleted quiz %s", adminID, quizID)
	return nil
}

func (s *CatalogService) AddQuestion(ctx context.Context, quizID string, req models.QuestionRequest) (*models.Question, error) {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return nil, err
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return nil, Validation("invalid question", fields)
	}
	if _, err := s.catalog.GetQuiz(ctx, quizID); err != nil {
		return nil, StoreFailure("load quiz", err)
	}

	q := newQuestion(quizID, req, s.now().UTC())
	if err := ValidateQuestionForGrading(q); err != nil {
		return nil, err
	}
	if err := s.catalog.CreateQuestion(ctx, &q); err != nil {
		return nil, StoreFailure("create question", err)
	}
	utils.LogInfo("Admin %s added question %s to quiz %s", adminID, q.ID, quizID)
	return &q, nil
}

func (s *CatalogService) UpdateQuestion(ctx context.Context, questionID string, req models.QuestionRequest) (*models.Question, error) {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return nil, err
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return nil, Validation("invalid question", fields)
	}

	q, err := s.catalog.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, StoreFailure("load question", err)
	}
	q.QuestionText = strings.TrimSpace(req.QuestionText)
	q.OptionA = strings.TrimSpace(req.OptionA)
	q.OptionB = strings.TrimSpace(req.OptionB)
	q.OptionC = strings.TrimSpace(req.OptionC)
	q.OptionD = strings.TrimSpace(req.OptionD)
	q.CorrectOption = req.CorrectOption

	if err := ValidateQuestionForGrading(*q); err != nil {
		return nil, err
	}
	if err := s.catalog.UpdateQuestion(ctx, q); err != nil {
		return nil, StoreFailure("update question", err)
	}
	utils.LogInfo("Admin %s updated question %s", adminID, q.ID)
	return q, nil
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, questionID string) error {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteQuestion(ctx, questionID); err != nil {
		return StoreFailure("delete question", err)
	}
	utils.LogInfo("Admin %s deleted question %s", adminID, questionID)
	return nil
}

func newQuestion(quizID string, req models.QuestionRequest, created time.Time) models.Question {
	return models.Question{
		ID:            utils.NewID(),
		QuizID:        quizID,
		QuestionText:  strings.TrimSpace(req.QuestionText),
		OptionA:       strings.TrimSpace(req.OptionA),
		OptionB:       strings.TrimSpace(req.OptionB),
		OptionC:       strings.TrimSpace(req.OptionC),
		OptionD:       strings.TrimSpace(req.OptionD),
		CorrectOption: req.CorrectOption,
		CreatedAt:     created,
	}
}
