// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

var scoreMessage = fmt.Sprintf("Must be between %d and %d", MinScore, MaxScore)

// Service implements the review and comment use cases.
type Service struct {
	repository Repository
	gate       policy.Gate
	logger     *slog.Logger
}

// NewService constructs a new [Service] guarded by the author/moderator/admin gate.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		gate:       policy.AuthorModeratorAdminOrReadOnly,
		logger:     logger,
	}
}

// # Inputs

// ReviewInput carries review fields. On create both are required; on update
// nil fields keep their stored value.
type ReviewInput struct {
	Text  *string
	Score *int
}

// CommentInput carries comment fields.
type CommentInput struct {
	Text *string
}

// # Reviews

// ListReviews returns one page of reviews of an existing title.
func (service *Service) ListReviews(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error) {
	if err := service.repository.TitleExists(context, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.repository.ListReviews(context, titleID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, total, nil
}

// GetReview returns a review of the title, never one of another title.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	if err := service.repository.TitleExists(context, titleID); err != nil {
		return nil, err
	}
	return service.repository.FindReview(context, titleID, reviewID)
}

/*
CreateReview publishes the caller's review of a title.

Description: The title must exist and the caller must not have reviewed it
yet. The pre-check gives the common case a clean error; the storage
constraint catches concurrent duplicates with the same error.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - titleID: int64
  - input: ReviewInput

Returns:
  - *Review: The stored review
  - error: Forbidden, NotFound, ValidationError, or DuplicateReview
*/
func (service *Service) CreateReview(context context.Context, caller *sec.Identity, titleID int64, input ReviewInput) (*Review, error) {
	if err := service.gate.HasPermission(http.MethodPost, caller); err != nil {
		return nil, err
	}

	if err := service.repository.TitleExists(context, titleID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, pointer.Val(input.Text)).
		Present(FieldScore, input.Score != nil).
		Range(FieldScore, pointer.Val(input.Score), MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.repository.HasReviewBy(context, titleID, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("review_service_duplicate_check_failed: %w", err)
	}
	if exists {
		return nil, apperr.DuplicateReview()
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: caller.UserID,
		Author:   caller.Username,
		Text:     *input.Text,
		Score:    *input.Score,
	}

	if err := service.repository.CreateReview(context, review); err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", review.ID),
	)

	return review, nil
}

/*
UpdateReview edits text and/or score after the object-level check.

Returns:
  - *Review: The updated review, pub_date unchanged
  - error: NotFound, Forbidden, or ValidationError
*/
func (service *Service) UpdateReview(context context.Context, caller *sec.Identity, titleID, reviewID int64, input ReviewInput) (*Review, error) {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := service.gate.HasObjectPermission(http.MethodPatch, caller, review.AuthorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required(FieldText, *input.Text)
		review.Text = *input.Text
	}
	if input.Score != nil {
		validator.Range(FieldScore, *input.Score, MinScore, MaxScore)
		review.Score = *input.Score
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateReview(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	return review, nil
}

// DeleteReview removes a review after the object-level check.
func (service *Service) DeleteReview(context context.Context, caller *sec.Identity, titleID, reviewID int64) error {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := service.gate.HasObjectPermission(http.MethodDelete, caller, review.AuthorID); err != nil {
		return err
	}

	if err := service.repository.DeleteReview(context, titleID, reviewID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("deleted_by", caller.UserID),
	)

	return nil
}

// # Comments

// ListComments returns one page of comments of a review within its title.
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, page pagination.Params) ([]*Comment, int, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.repository.ListComments(context, reviewID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return comments, total, nil
}

// GetComment walks title, review, comment; any broken link is NotFound.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.FindComment(context, reviewID, commentID)
}

// CreateComment posts the caller's comment under a review of the title.
func (service *Service) CreateComment(context context.Context, caller *sec.Identity, titleID, reviewID int64, input CommentInput) (*Comment, error) {
	if err := service.gate.HasPermission(http.MethodPost, caller); err != nil {
		return nil, err
	}

	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, pointer.Val(input.Text))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: caller.UserID,
		Author:   caller.Username,
		Text:     *input.Text,
	}

	if err := service.repository.CreateComment(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	return comment, nil
}

// UpdateComment edits a comment's text after the object-level check.
func (service *Service) UpdateComment(context context.Context, caller *sec.Identity, titleID, reviewID, commentID int64, input CommentInput) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := service.gate.HasObjectPermission(http.MethodPatch, caller, comment.AuthorID); err != nil {
		return nil, err
	}

	if input.Text != nil {
		validator := &validate.Validator{}
		if err := validator.Required(FieldText, *input.Text).Err(); err != nil {
			return nil, err
		}
		comment.Text = *input.Text
	}

	if err := service.repository.UpdateComment(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment after the object-level check.
func (service *Service) DeleteComment(context context.Context, caller *sec.Identity, titleID, reviewID, commentID int64) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := service.gate.HasObjectPermission(http.MethodDelete, caller, comment.AuthorID); err != nil {
		return err
	}

	if err := service.repository.DeleteComment(context, reviewID, commentID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	return nil
}
