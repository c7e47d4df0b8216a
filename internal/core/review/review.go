// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements reviews of titles and the comments under them.

Every lookup is scoped by its parents: a review is found only within its
title, and a comment only within its review, so a valid ID under the wrong
parent reads as missing.

# Invariants

  - One review per author per title. The service pre-checks and the
    unique_title_author constraint settles races.
  - Scores are whole numbers from 1 to 10.
  - Publication dates are set on insert and never rewritten.
  - Only the author, a moderator, or an administrator may edit or delete.
*/
package review

import "time"

// # Domain Entities

// Review is one member's scored opinion of a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply under a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// # Constraints

const (
	MinScore = 1
	MaxScore = 10
)

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
)
