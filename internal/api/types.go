package api

import "encoding/json"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User is the profile cached locally after login. The backend never returns
// it directly; the client derives it from the submitted email.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

// PoseSummary is one per-pose row of a practice session. The JSON keys are
// the backend's literal column names.
type PoseSummary struct {
	Pose        string  `json:"Yoga Pose"`
	TotalTime   float64 `json:"Total Time (s)"`
	Repetitions int     `json:"Repetitions"`
	AvgAccuracy float64 `json:"Average Accuracy (%)"`
}

// Session is a completed practice record. Dates stay as the backend's raw
// strings; the calendar buckets them by exact prefix match.
type Session struct {
	ID            int           `json:"id"`
	Date          string        `json:"date"`
	PoseName      string        `json:"pose_name"`
	TotalTime     int           `json:"total_time"`
	Duration      float64       `json:"duration"`
	Summary       []PoseSummary `json:"summary"`
	AccuracyScore float64       `json:"accuracy_score"`
	FeedbackText  string        `json:"feedback_text,omitempty"`
}

// AvgSummaryAccuracy averages the per-pose accuracies, falling back to the
// session-level score when no summary rows exist.
func (s Session) AvgSummaryAccuracy() float64 {
	if len(s.Summary) == 0 {
		return s.AccuracyScore
	}
	var sum float64
	for _, row := range s.Summary {
		sum += row.AvgAccuracy
	}
	return sum / float64(len(s.Summary))
}

// JournalEntry is one reflection with optional backend-computed sentiment.
type JournalEntry struct {
	ID             int      `json:"id"`
	Date           string   `json:"date"`
	EntryText      string   `json:"entry_text"`
	Sentiment      string   `json:"sentiment,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
}

// ChatMessage is one turn of a coach conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRecord is a stored consultation. /get-coach-history/ populates
// CreatedDate, the /get-chats/ mount populates Date.
type ChatRecord struct {
	ID          int    `json:"id"`
	UserQuery   string `json:"user_query"`
	BotResponse string `json:"bot_response,omitempty"`
	CreatedDate string `json:"created_date,omitempty"`
	Date        string `json:"date,omitempty"`
}

// When returns whichever date field the backend filled.
func (r ChatRecord) When() string {
	if r.CreatedDate != "" {
		return r.CreatedDate
	}
	return r.Date
}

// PlanItem is one scheduled practice suggestion embedded in a chat reply.
type PlanItem struct {
	Title       string `json:"title"`
	PlannedDate string `json:"planned_date"`
	Description string `json:"description"`
}

// CalendarSession marks a completed practice on the month grid.
type CalendarSession struct {
	Date     string `json:"date"`
	PoseName string `json:"pose_name"`
}

// CalendarPlan marks an approved upcoming practice on the month grid.
type CalendarPlan struct {
	PlannedDate string `json:"planned_date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// CalendarData is the combined aggregate from /get-calendar/.
type CalendarData struct {
	Sessions []CalendarSession `json:"sessions"`
	Plans    []CalendarPlan    `json:"plans"`
}

// Exercise categories offered by the library filter.
const (
	CategoryAll         = "All"
	CategoryBalance     = "Balance"
	CategoryStrength    = "Strength"
	CategoryFlexibility = "Flexibility"
)

// Exercise is one catalog entry of the pose library.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// AnalysisResult is the outcome for a single detected pose.
type AnalysisResult struct {
	Pose            string  `json:"pose"`
	Accuracy        float64 `json:"accuracy"`
	Feedback        string  `json:"feedback"`
	Details         string  `json:"details"`
	Duration        float64 `json:"duration"`
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
	SessionID       *int    `json:"sessionId,omitempty"`
}

// AnalysisOutcome is the tagged variant of the /analyze-session/ response:
// a single pose result for still images, or a results array for clips.
type AnalysisOutcome struct {
	Multi   bool
	results []AnalysisResult
}

// Results holds the per-pose outcomes. A multi analysis may be empty when
// every detected pose fell under the backend's duration threshold.
func (o AnalysisOutcome) Results() []AnalysisResult { return o.results }

func (o *AnalysisOutcome) UnmarshalJSON(b []byte) error {
	var multi struct {
		Results []AnalysisResult `json:"results"`
	}
	if err := json.Unmarshal(b, &multi); err != nil {
		return err
	}
	if multi.Results != nil {
		o.Multi = true
		o.results = multi.Results
		return nil
	}
	var single AnalysisResult
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	o.Multi = false
	o.results = []AnalysisResult{single}
	return nil
}
