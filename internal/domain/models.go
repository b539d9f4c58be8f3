package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuizKind tags a quiz as either authored by hand or derived from missed answers.
type QuizKind string

const (
	KindAuthored QuizKind = "authored"
	KindRetake   QuizKind = "retake"
)

// DeletedQuizTitle is shown for results whose quiz no longer exists.
const DeletedQuizTitle = "deleted quiz"

// Question is a prompt and its expected short answer.
type Question struct {
	ID     string `json:"id"`
	Prompt string `json:"question"`
	Answer string `json:"answer"`
}

// Quiz is an ordered set of questions owned by one user.
// SourceResultID is only set when Kind is KindRetake.
type Quiz struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	OwnerID        string     `json:"owner"`
	Questions      []Question `json:"questions"`
	Kind           QuizKind   `json:"kind"`
	SourceResultID string     `json:"sourceResultId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// IsRetake reports whether the quiz was derived from a result's missed answers.
func (q Quiz) IsRetake() bool {
	return q.Kind == KindRetake
}

// Clone returns a copy that shares no slices with q.
func (q Quiz) Clone() Quiz {
	out := q
	out.Questions = append([]Question(nil), q.Questions...)
	return out
}

// AnswerRecord is a denormalized copy of one graded question.
type AnswerRecord struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
	Correct       bool   `json:"isCorrect"`
}

// QuizResult is the immutable record of one taking of a quiz.
type QuizResult struct {
	ID             string         `json:"id"`
	QuizID         string         `json:"quizId"`
	OwnerID        string         `json:"userId"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Answers        []AnswerRecord `json:"answers"`
	SubmittedAt    time.Time      `json:"date"`
}

// Clone returns a copy that shares no slices with r.
func (r QuizResult) Clone() QuizResult {
	out := r
	out.Answers = append([]AnswerRecord(nil), r.Answers...)
	return out
}

// Percentage is the rounded share of correct answers, 0 for an empty result.
func (r QuizResult) Percentage() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return (r.Score*100 + r.TotalQuestions/2) / r.TotalQuestions
}

// ResultSummary is a result together with its quiz. Quiz is nil once the
// quiz has been deleted.
type ResultSummary struct {
	QuizResult
	Quiz        *Quiz  `json:"quiz"`
	QuizTitle   string `json:"quizTitle"`
	QuizDeleted bool   `json:"quizDeleted"`
	Percentage  int    `json:"percentage"`
}

// NewResultSummary resolves the quiz title, falling back to DeletedQuizTitle.
func NewResultSummary(result QuizResult, quiz *Quiz) ResultSummary {
	summary := ResultSummary{
		QuizResult:  result,
		QuizTitle:   DeletedQuizTitle,
		QuizDeleted: true,
		Percentage:  result.Percentage(),
	}
	if quiz != nil {
		populated := quiz.Clone()
		summary.Quiz = &populated
		summary.QuizTitle = quiz.Title
		summary.QuizDeleted = false
	}
	return summary
}

// Profile is the denormalized user record refreshed on every authenticated request.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
}

// Submission is a taker's answers in the order the questions were presented.
// Order lists question IDs; when empty the authoring order is assumed.
type Submission struct {
	Answers []string
	Order   []string
}

// QuizPatch is a partial update. An empty Title leaves the title unchanged.
// Questions carrying a known ID are amended in place, the rest are appended.
type QuizPatch struct {
	Title     string
	Questions []Question
}

// ValidID reports whether id has the shape of an entity identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}
