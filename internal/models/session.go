package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interaction is one question/answer turn. Score is nil when the turn was not scored.
type Interaction struct {
	QuestionIndex *int         `bson:"question_index,omitempty" json:"question_index,omitempty"`
	Question      string       `bson:"question" json:"question"`
	Answer        string       `bson:"answer" json:"answer"`
	Score         *int         `bson:"score,omitempty" json:"score,omitempty"`
	Feedback      []string     `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Category      string       `bson:"category,omitempty" json:"category,omitempty"`
	FollowUp      *Interaction `bson:"follow_up,omitempty" json:"follow_up,omitempty"`
}

// InterviewSession is the single live record per candidate (collection "interaction").
type InterviewSession struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CandidateID  string             `bson:"candidate_id" json:"candidate_id"`
	SessionID    string             `bson:"session_id" json:"session_id"`
	Interactions []Interaction      `bson:"interactions" json:"interactions"`
	Scores       SessionScores      `bson:"scores" json:"scores"`
	Metadata     SessionMetadata    `bson:"metadata" json:"metadata"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type SessionScores struct {
	TotalScore         int     `bson:"total_score" json:"total_score"`
	AverageScore       float64 `bson:"average_score" json:"average_score"`
	ScoredInteractions int     `bson:"scored_interactions" json:"scored_interactions"`
	MaxPossibleScore   int     `bson:"max_possible_score" json:"max_possible_score"`
}

type SessionMetadata struct {
	TotalQuestions       int       `bson:"total_questions" json:"total_questions"`
	InterviewCompletedAt time.Time `bson:"interview_completed_at" json:"interview_completed_at"`
	Platform             string    `bson:"platform,omitempty" json:"platform,omitempty"`
	Version              string    `bson:"version,omitempty" json:"version,omitempty"`
}

// LegacyInterview is the pre-session record shape (collection "interviews").
type LegacyInterview struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CandidateID  string             `bson:"candidate_id" json:"candidate_id"`
	Interactions []Interaction      `bson:"interactions" json:"interactions"`
}

// InterviewResult is the aggregate the report is rendered from (collection "interviews_results").
type InterviewResult struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CandidateID          string             `bson:"candidate_id" json:"candidate_id"`
	Interactions         []Interaction      `bson:"interactions" json:"interactions"`
	Scores               ResultScores       `bson:"scores" json:"scores"`
	Metadata             ResultMetadata     `bson:"metadata" json:"metadata"`
	InterviewCompletedAt *time.Time         `bson:"interview_completed_at,omitempty" json:"interview_completed_at,omitempty"`
	ImprovementAreas     []ImprovementArea  `bson:"improvement_areas,omitempty" json:"improvement_areas,omitempty"`
}

type ResultScores struct {
	TotalScore         float64            `bson:"total_score" json:"total_score"`
	AverageScore       float64            `bson:"average_score" json:"average_score"`
	ScoredInteractions int                `bson:"scored_interactions" json:"scored_interactions"`
	MaxPossibleScore   float64            `bson:"max_possible_score" json:"max_possible_score"`
	CategoryAverages   map[string]float64 `bson:"category_averages,omitempty" json:"category_averages,omitempty"`
}

type ResultMetadata struct {
	Position        string `bson:"position,omitempty" json:"position,omitempty"`
	InterviewerName string `bson:"interviewer_name,omitempty" json:"interviewer_name,omitempty"`
}

type ImprovementArea struct {
	Question string  `bson:"question" json:"question"`
	Score    float64 `bson:"score" json:"score"`
}
