package quiz

import (
	"context"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/utils"
)

const recentQuizLimit = 5

// ReportService backs the admin dashboard, reports and student roster.
type ReportService struct {
	gate    Gate
	catalog CatalogStore
	results ResultStore
	users   UserStore
	reports ReportStore
	ranks   RankRefresher
}

func NewReportService(gate Gate, catalog CatalogStore, results ResultStore, users UserStore, reports ReportStore, ranks RankRefresher) *ReportService {
	return &ReportService{
		gate:    gate,
		catalog: catalog,
		results: results,
		users:   users,
		reports: reports,
		ranks:   ranks,
	}
}

func (s *ReportService) Dashboard(ctx context.Context) (*models.AdminStats, error) {
	if _, err := requireAdmin(ctx, s.gate); err != nil {
		return nil, err
	}

	quizzes, err := s.catalog.ListQuizzes(ctx, false)
	if err != nil {
		return nil, StoreFailure("list quizzes", err)
	}
	students, err := s.users.ListStudents(ctx)
	if err != nil {
		return nil, StoreFailure("list students", err)
	}

	stats := &models.AdminStats{
		TotalQuizzes:  len(quizzes),
		TotalStudents: len(students),
		RecentQuizzes: make([]models.Quiz, 0, recentQuizLimit),
	}
	for i, q := range quizzes {
		if q.Active {
			stats.ActiveQuizzes++
		}
		if i < recentQuizLimit {
			stats.RecentQuizzes = append(stats.RecentQuizzes, q)
		}
	}
	return stats, nil
}

// QuizReports lists every quiz with its question and attempt counts.
func (s *ReportService) QuizReports(ctx context.Context) ([]models.QuizReport, error) {
	if _, err := requireAdmin(ctx, s.gate); err != nil {
		return nil, err
	}
	reports, err := s.reports.QuizReports(ctx)
	if err != nil {
		return nil, StoreFailure("build quiz reports", err)
	}
	for i := range reports {
		reports[i].AveragePercentage = RoundOneDecimal(reports[i].AveragePercentage)
	}
	return reports, nil
}

func (s *ReportService) Students(ctx context.Context) ([]models.User, error) {
	if _, err := requireAdmin(ctx, s.gate); err != nil {
		return nil, err
	}
	students, err := s.users.ListStudents(ctx)
	if err != nil {
		return nil, StoreFailure("list students", err)
	}
	return students, nil
}

// DeleteStudent removes a student and their results. Admin accounts cannot
// be removed this way.
func (s *ReportService) DeleteStudent(ctx context.Context, userID string) error {
	adminID, err := requireAdmin(ctx, s.gate)
	if err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return StoreFailure("load user", err)
	}
	if user.Role != models.RoleStudent {
		return NotFound("student %s not found", userID)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return StoreFailure("delete student", err)
	}
	utils.LogInfo("Admin %s deleted student %s", adminID, userID)

	if s.ranks != nil {
		if err := s.ranks.RequestRankRecompute(ctx); err != nil {
			utils.LogError("Failed to request rank recompute after deleting %s: %v", userID, err)
		}
	}
	return nil
}

// QuizResults lists every result recorded for a quiz.
func (s *ReportService) QuizResults(ctx context.Context, quizID string) ([]models.Result, error) {
	if _, err := requireAdmin(ctx, s.gate); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetQuiz(ctx, quizID); err != nil {
		return nil, StoreFailure("load quiz", err)
	}
	results, err := s.results.ListResultsByQuiz(ctx, quizID)
	if err != nil {
		return nil, StoreFailure("list results", err)
	}
	return results, nil
}

// Ranker recomputes the rank column for every student.
type Ranker struct {
	users UserStore
}

func NewRanker(users UserStore) *Ranker {
	return &Ranker{users: users}
}

func (r *Ranker) Recompute(ctx context.Context) error {
	totals, err := r.users.ListStudentTotals(ctx)
	if err != nil {
		return StoreFailure("load student totals", err)
	}
	ranks := ComputeRanks(totals)
	if err := r.users.UpdateRanks(ctx, ranks); err != nil {
		return StoreFailure("update ranks", err)
	}
	utils.LogInfo("Recomputed ranks for %d students", len(ranks))
	return nil
}

// InlineRankRefresher recomputes ranks synchronously. It is used when no
// background queue is configured.
type InlineRankRefresher struct {
	Ranker *Ranker
}

func (r InlineRankRefresher) RequestRankRecompute(ctx context.Context) error {
	return r.Ranker.Recompute(ctx)
}
