// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"

	"github.com/taibuivan/arvio/pkg/pagination"
)

// ReviewRepository defines the data access contract for reviews.
// Single-review lookups are composite: a review only resolves under the
// title it belongs to, so a mismatched pair reads as missing.
type ReviewRepository interface {
	ListByTitle(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error)
	FindByID(context context.Context, titleID, reviewID string) (*Review, error)

	// FindByAuthorAndTitle backs the one-review-per-author pre-check.
	FindByAuthorAndTitle(context context.Context, authorID, titleID string) (*Review, error)

	// Create propagates unique violations raw so the service can map the
	// concurrent duplicate to the same rejection as the pre-check.
	Create(context context.Context, review *Review) error

	Update(context context.Context, review *Review) error
	Delete(context context.Context, reviewID string) error
}

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {
	ListByReview(context context.Context, reviewID string, params pagination.Params) ([]*Comment, int, error)
	FindByID(context context.Context, reviewID, commentID string) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, commentID string) error
}

// TitleChecker is the narrow slice of the catalogue this package needs:
// review creation and listing must 404 on a title that does not exist.
type TitleChecker interface {
	TitleExists(context context.Context, titleID string) (bool, error)
}
