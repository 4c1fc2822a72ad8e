// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON (validated with go-playground/validator tags):

  - SubmitAnswerRequest: questionId, text
  - UpdateProfileRequest: displayName, avatarUrl
  - RegisterPushDestinationRequest: token, platform
  - CreateQuestionRequest: text
  - BannedTermRequest: term

# Response Types

  - SubmitAnswerResponse: answerId, date, isOnTime, lateMinutes, createdAt
  - TodayResponse: date, isPublished, publishedAt, question, hasAnswered, userAnswer
  - TimelineResponse / TimelineItem: the per-viewer feed
  - ReactionResponse: answerId, reactionCount, hasReacted
  - ErrorResponse: error, message, code

# Domain Types

  - Question: question bank entry with its last-used date
  - DailyQuestion: one row per calendar day, published once
  - Answer: one per (user, question); soft-deletable
  - User / ProfileSnippet: public profile data
  - PushDestination: registered push token
  - BannedTerm: moderator-managed term

Answer carries the raw text and is never encoded directly; AnswerView is the
public shape.

# Dates

Calendar days are strings in DateLayout ("2006-01-02") in the service's home
zone. Scheduled publish times use ClockLayout ("15:04").
*/
package models
