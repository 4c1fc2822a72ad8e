// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// DateLayout is the layout of every calendar-day key.
const DateLayout = "2006-01-02"

// ClockLayout is the layout of a scheduled publish time of day.
const ClockLayout = "15:04"

// Push platform constants
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// Timeline limits
const (
	DefaultTimelineLimit = 50
	MaxTimelineLimit     = 100
)

// Request types

type SubmitAnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Text       string `json:"text"`
}

type UpdateProfileRequest struct {
	DisplayName string  `json:"displayName" validate:"required,max=50"`
	AvatarURL   *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

type RegisterPushDestinationRequest struct {
	Token    string `json:"token" validate:"required,max=512"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

type CreateQuestionRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type BannedTermRequest struct {
	Term string `json:"term" validate:"required,max=100"`
}

// Response types

type SubmitAnswerResponse struct {
	AnswerID     string    `json:"answerId"`
	Date         string    `json:"date"`
	IsOnTime     bool      `json:"isOnTime"`
	LateMinutes  int       `json:"lateMinutes"`
	CreatedAt    time.Time `json:"createdAt"`
	RenderedText string    `json:"renderedText"`
	IsFlagged    bool      `json:"isFlagged"`
}

type TodayResponse struct {
	Date        string      `json:"date"`
	IsPublished bool        `json:"isPublished"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`
	Question    *Question   `json:"question,omitempty"`
	HasAnswered bool        `json:"hasAnswered"`
	UserAnswer  *AnswerView `json:"userAnswer,omitempty"`
}

type TimelineResponse struct {
	Date     string         `json:"date"`
	Question *Question      `json:"question"`
	Items    []TimelineItem `json:"items"`
}

type TimelineItem struct {
	AnswerID      string         `json:"answerId"`
	RenderedText  string         `json:"renderedText"`
	IsOnTime      bool           `json:"isOnTime"`
	LateMinutes   int            `json:"lateMinutes"`
	LateLabel     string         `json:"lateLabel,omitempty"`
	ReactionCount int            `json:"reactionCount"`
	HasReacted    bool           `json:"hasReacted"`
	Author        ProfileSnippet `json:"author"`
	CreatedAt     time.Time      `json:"createdAt"`
	IsOwn         bool           `json:"isOwn"`
}

type ReactionResponse struct {
	AnswerID      string `json:"answerId"`
	ReactionCount int    `json:"reactionCount"`
	HasReacted    bool   `json:"hasReacted"`
}

type AnswerHistoryResponse struct {
	Answers []AnswerView `json:"answers"`
}

type AnswerResponse struct {
	Answer AnswerView `json:"answer"`
}

type RelationResponse struct {
	UserID    string `json:"userId"`
	Following bool   `json:"following"`
	Blocked   bool   `json:"blocked"`
}

type ProfileResponse struct {
	Profile     ProfileSnippet `json:"profile"`
	IsFollowing bool           `json:"isFollowing"`
}

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type BannedTermsResponse struct {
	Terms []string `json:"terms"`
}

type JobRunResponse struct {
	Job     string `json:"job"`
	Outcome string `json:"outcome"`
}

// Domain types

type Question struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	LastUsedDate *string   `json:"lastUsedDate,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DailyQuestion moves Unscheduled -> Scheduled (row exists) -> Published
// (PublishedAt set). PublishedAt is written once and never reverts.
type DailyQuestion struct {
	Date                 string     `json:"date"`
	QuestionID           string     `json:"questionId"`
	ScheduledPublishTime string     `json:"scheduledPublishTime"`
	PublishedAt          *time.Time `json:"publishedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

func (d DailyQuestion) IsPublished() bool {
	return d.PublishedAt != nil
}

type Answer struct {
	ID            string
	UserID        string
	QuestionID    string
	Date          string
	RawText       string
	RenderedText  string
	IsFlagged     bool
	FlagReason    *string
	IsOnTime      bool
	LateMinutes   int
	IsDeleted     bool
	DeletedAt     *time.Time
	ReactionCount int
	CreatedAt     time.Time
}

// AnswerView is what leaves the service. Raw text is never exposed.
type AnswerView struct {
	AnswerID      string     `json:"answerId"`
	QuestionID    string     `json:"questionId"`
	Date          string     `json:"date"`
	RenderedText  string     `json:"renderedText"`
	IsFlagged     bool       `json:"isFlagged"`
	IsOnTime      bool       `json:"isOnTime"`
	LateMinutes   int        `json:"lateMinutes"`
	IsDeleted     bool       `json:"isDeleted"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
	ReactionCount int        `json:"reactionCount"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (a Answer) View() AnswerView {
	return AnswerView{
		AnswerID:      a.ID,
		QuestionID:    a.QuestionID,
		Date:          a.Date,
		RenderedText:  a.RenderedText,
		IsFlagged:     a.IsFlagged,
		IsOnTime:      a.IsOnTime,
		LateMinutes:   a.LateMinutes,
		IsDeleted:     a.IsDeleted,
		DeletedAt:     a.DeletedAt,
		ReactionCount: a.ReactionCount,
		CreatedAt:     a.CreatedAt,
	}
}

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProfileSnippet struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

func (u User) Snippet() ProfileSnippet {
	return ProfileSnippet{UserID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

type PushDestination struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"-"` // Never expose in JSON
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
}

type BannedTerm struct {
	Term      string    `json:"term"`
	CreatedAt time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
