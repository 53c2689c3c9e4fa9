// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// FeedbackReviewTable represents the 'feedback.review' table
type FeedbackReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string
}

// FeedbackReview is the schema definition for feedback.review.
// The (authorid, titleid) pair carries the unique_author_title constraint.
var FeedbackReview = FeedbackReviewTable{
	Table:    "feedback.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",
}

func (t FeedbackReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate}
}

// FeedbackCommentTable represents the 'feedback.comment' table
type FeedbackCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string
}

// FeedbackComment is the schema definition for feedback.comment
var FeedbackComment = FeedbackCommentTable{
	Table:    "feedback.comment",
	ID:       "id",
	ReviewID: "reviewid",
	AuthorID: "authorid",
	Text:     "text",
	PubDate:  "pubdate",
}

func (t FeedbackCommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Text, t.PubDate}
}
