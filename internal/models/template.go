package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InterviewTemplate struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CandidateID    string             `bson:"candidate_id" json:"candidate_id"`
	CandidateEmail string             `bson:"candidate_email,omitempty" json:"candidate_email,omitempty"`
	GreetingScript string             `bson:"greeting_script" json:"greeting_script"`
	Questions      []string           `bson:"questions" json:"questions"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Usable reports whether the template can be served as-is; an empty one
// (left behind by a failed generation) counts as a miss.
func (t *InterviewTemplate) Usable() bool {
	return t != nil && t.GreetingScript != "" && len(t.Questions) > 0
}

// PreprocessingRecord is the question + audio bundle produced out of band.
type PreprocessingRecord struct {
	ID                 primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	CandidateID        string                 `bson:"candidate_id" json:"candidate_id"`
	GreetingsText      string                 `bson:"greetings_text,omitempty" json:"greetings_text,omitempty"`
	AudioFileGreetings *primitive.ObjectID    `bson:"audio_file_greetings,omitempty" json:"audio_file_greetings,omitempty"`
	Questions          []PreprocessedQuestion `bson:"questions" json:"questions"`
	Status             string                 `bson:"status,omitempty" json:"status,omitempty"` // pending|processing|ready|failed
	// Revision is bumped on every question upsert; audio writes are conditional on it.
	Revision           int64                  `bson:"revision" json:"revision"`
	CreatedAt          time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time              `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type PreprocessedQuestion struct {
	QuestionNumber          int                 `bson:"question_number" json:"question_number"`
	Text                    string              `bson:"text" json:"text"`
	AudioFileQuestionNumber *primitive.ObjectID `bson:"audio_file_question_number,omitempty" json:"audio_file_question_number,omitempty"`
}

const (
	PreprocessPending    = "pending"
	PreprocessProcessing = "processing"
	PreprocessReady      = "ready"
	PreprocessFailed     = "failed"
)

func (p *PreprocessingRecord) QuestionTexts() []string {
	out := make([]string, 0, len(p.Questions))
	for _, q := range p.Questions {
		out = append(out, q.Text)
	}
	return out
}
