// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package feedback holds the review and comment entities attached to
// catalogue titles. A user reviews a title at most once; comments hang
// off reviews and are always addressed through their parent.
package feedback

import "time"

// Author carries the display identity of whoever wrote a review or
// comment, denormalized from users.account at read time.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Review is a scored opinion on a title.
type Review struct {
	ID      string    `json:"id"`
	TitleID string    `json:"title_id"`
	Author  Author    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"` // 1..10 inclusive
	PubDate time.Time `json:"pub_date"`
}

// Comment is a reply to a review.
type Comment struct {
	ID       string    `json:"id"`
	ReviewID string    `json:"review_id"`
	Author   Author    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

const (
	FieldText  = "text"
	FieldScore = "score"
)

const (
	MinScore   = 1
	MaxScore   = 10
	MaxTextLen = 10000
)
