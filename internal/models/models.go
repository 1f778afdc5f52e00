package models

import "time"

// Language is one of the editor languages supported by the shared session.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCPP        Language = "cpp"
)

// Languages lists every supported language in UI order. The first entry is
// the default for a fresh session.
var Languages = []Language{LangJavaScript, LangPython, LangJava, LangCPP}

func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Status describes the lifecycle state of an interview session.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

// Terminal reports whether the status ends the session. Terminal sessions
// must carry an endTime.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusMissed
}

// CanTransitionTo enforces forward-only transitions:
// scheduled -> live -> completed, or scheduled -> missed.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusScheduled:
		return next == StatusLive || next == StatusMissed
	case StatusLive:
		return next == StatusCompleted
	}
	return false
}

// Result is the pass/fail outcome of a completed interview.
type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

func (r Result) Valid() bool { return r == ResultPass || r == ResultFail }

// Review is the structured evaluation an interviewer attaches to a session.
// Embedded in the session record, written via the review submission
// operation and replaceable in full by any listed interviewer.
type Review struct {
	Rating                  int      `json:"rating"`
	Feedback                string   `json:"feedback"`
	Strengths               []string `json:"strengths,omitempty"`
	AreasForImprovement     []string `json:"areasForImprovement,omitempty"`
	OverallAssessment       string   `json:"overallAssessment"`
	RecommendedForNextRound *bool    `json:"recommendedForNextRound,omitempty"`
}

func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	if r.Feedback == "" || r.OverallAssessment == "" {
		return ErrIncompleteReview
	}
	return nil
}

// Session is one scheduled or live interview with its shared collaborative
// state. StartTime, EndTime and ReviewedAt are unix-epoch milliseconds.
type Session struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description,omitempty"`
	StartTime    int64  `gorm:"index" json:"startTime"`
	EndTime      *int64 `json:"endTime,omitempty"`
	Status       Status `gorm:"index;not null" json:"status"`
	StreamCallID string `gorm:"uniqueIndex;not null" json:"streamCallId"`

	CandidateID    string   `gorm:"index;not null" json:"candidateId"`
	InterviewerIDs []string `gorm:"serializer:json;not null" json:"interviewerIds"`

	Result     *Result `gorm:"index" json:"result,omitempty"`
	Review     *Review `gorm:"serializer:json" json:"review,omitempty"`
	ReviewedBy *string `json:"reviewedBy,omitempty"`
	ReviewedAt *int64  `json:"reviewedAt,omitempty"`

	CurrentQuestionID *string  `json:"currentQuestionId,omitempty"`
	CurrentCode       string   `gorm:"type:text" json:"currentCode"`
	CurrentLanguage   Language `json:"currentLanguage"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasInterviewer reports whether the given identity is listed on the session.
func (s *Session) HasInterviewer(userID string) bool {
	for _, id := range s.InterviewerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsParticipant reports whether the identity is the candidate or an
// interviewer of this session.
func (s *Session) IsParticipant(userID string) bool {
	return userID == s.CandidateID || s.HasInterviewer(userID)
}

// Example is a single worked input/output pair on a question.
type Example struct {
	Input       string `bson:"input" json:"input"`
	Output      string `bson:"output" json:"output"`
	Explanation string `bson:"explanation,omitempty" json:"explanation,omitempty"`
}

// StarterCode holds the initial editor contents per supported language.
// Every language key must be populated.
type StarterCode struct {
	JavaScript string `bson:"javascript" json:"javascript"`
	Python     string `bson:"python" json:"python"`
	Java       string `bson:"java" json:"java"`
	CPP        string `bson:"cpp" json:"cpp"`
}

// ForLanguage returns the starter text for the given language tag.
func (sc StarterCode) ForLanguage(l Language) string {
	switch l {
	case LangJavaScript:
		return sc.JavaScript
	case LangPython:
		return sc.Python
	case LangJava:
		return sc.Java
	case LangCPP:
		return sc.CPP
	}
	return ""
}

// Complete reports whether every supported language has starter code.
func (sc StarterCode) Complete() bool {
	return sc.JavaScript != "" && sc.Python != "" && sc.Java != "" && sc.CPP != ""
}

// Question is a coding problem owned by the interviewer who created it.
// Default questions are seeded by the system and cannot be edited or deleted.
type Question struct {
	ID          string      `bson:"_id" json:"id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	Examples    []Example   `bson:"examples" json:"examples"`
	StarterCode StarterCode `bson:"starterCode" json:"starterCode"`
	Constraints []string    `bson:"constraints,omitempty" json:"constraints,omitempty"`
	CreatedBy   string      `bson:"createdBy" json:"createdBy"`
	IsDefault   bool        `bson:"isDefault,omitempty" json:"isDefault,omitempty"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time   `bson:"updatedAt" json:"updatedAt"`
}

func (q *Question) Validate() error {
	if q.Title == "" || q.Description == "" {
		return ErrIncompleteQuestion
	}
	if !q.StarterCode.Complete() {
		return ErrIncompleteStarterCode
	}
	return nil
}
