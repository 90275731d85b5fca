package models

import "time"

// CodingSubmission is stored in postgres when configured, otherwise in the
// mongo "coding_submissions" collection.
type CodingSubmission struct {
	ID              string    `gorm:"column:id;type:uuid;primaryKey" bson:"_id" json:"id"`
	CandidateID     string    `gorm:"column:candidate_id;type:text;index" bson:"candidate_id" json:"candidate_id"`
	Language        string    `gorm:"column:language;type:text" bson:"language" json:"language"`
	Code            string    `gorm:"column:code;type:text" bson:"code" json:"code"`
	ExecutionResult string    `gorm:"column:execution_result;type:text" bson:"execution_result" json:"execution_result"`
	SubmittedAt     time.Time `gorm:"column:submitted_at;type:timestamptz" bson:"submitted_at" json:"submitted_at"`
}

func (CodingSubmission) TableName() string { return "coding_submissions" }
