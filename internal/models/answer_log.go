package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	AnswerKindAnswer   = "answer"
	AnswerKindFollowUp = "follow_up"
)

// AnswerLog is an append-only trail of every evaluated answer.
type AnswerLog struct {
	ID               string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID      string         `gorm:"column:candidate_id;type:text;index" json:"candidate_id"`
	QuestionIndex    int            `gorm:"column:question_index;type:integer" json:"question_index"`
	Kind             string         `gorm:"column:kind;type:text" json:"kind"` // answer|follow_up
	Question         string         `gorm:"column:question;type:text" json:"question"`
	Answer           string         `gorm:"column:answer;type:text" json:"answer"`
	Score            int            `gorm:"column:score;type:integer" json:"score"`
	Feedback         pq.StringArray `gorm:"column:feedback;type:text[]" json:"feedback"`
	FollowUpQuestion string         `gorm:"column:follow_up_question;type:text" json:"follow_up_question,omitempty"`
	FollowUpLevel    int            `gorm:"column:follow_up_level;type:integer" json:"follow_up_level"`
	Degraded         bool           `gorm:"column:degraded;type:boolean" json:"degraded"`
	Metadata         datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt        time.Time      `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (AnswerLog) TableName() string { return "answer_logs" }
