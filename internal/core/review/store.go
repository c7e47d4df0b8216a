// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository defines the persistence contract for reviews and comments.
//
// Every method that takes a parent ID filters by it.
type Repository interface {

	// TitleExists returns apperr.NotFound unless the title exists.
	TitleExists(context context.Context, titleID int64) error

	// # Reviews

	// ListReviews returns one page of a title's reviews ordered by pub_date.
	ListReviews(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error)

	/*
		FindReview returns the review only if it belongs to the title.

		Returns:
		  - *Review: Hydrated review with author username
		  - error: apperr.NotFound when missing or under another title
	*/
	FindReview(context context.Context, titleID, reviewID int64) (*Review, error)

	// HasReviewBy reports whether the author already reviewed the title.
	HasReviewBy(context context.Context, titleID, authorID int64) (bool, error)

	/*
		CreateReview inserts a review and sets its ID and pub_date.

		Returns:
		  - error: apperr.DuplicateReview on a unique_title_author violation
	*/
	CreateReview(context context.Context, review *Review) error

	// UpdateReview rewrites text and score only.
	UpdateReview(context context.Context, review *Review) error

	// DeleteReview removes a review and its comments.
	DeleteReview(context context.Context, titleID, reviewID int64) error

	// # Comments

	// ListComments returns one page of a review's comments ordered by pub_date.
	ListComments(context context.Context, reviewID int64, page pagination.Params) ([]*Comment, int, error)

	// FindComment returns the comment only if it belongs to the review.
	FindComment(context context.Context, reviewID, commentID int64) (*Comment, error)

	// CreateComment inserts a comment and sets its ID and pub_date.
	CreateComment(context context.Context, comment *Comment) error

	// UpdateComment rewrites the text only.
	UpdateComment(context context.Context, comment *Comment) error

	// DeleteComment removes a comment.
	DeleteComment(context context.Context, reviewID, commentID int64) error
}
