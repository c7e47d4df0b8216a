package schema

// CoreReviewTable represents the 'core.review' table
type CoreReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string

	// Constraint names
	UniqueTitleAuthor string
	CheckScoreRange   string
	ForeignTitle      string
}

// CoreReview is the schema definition for core.review
var CoreReview = CoreReviewTable{
	Table:    "core.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",

	UniqueTitleAuthor: "unique_title_author",
	CheckScoreRange:   "check_score_range",
	ForeignTitle:      "review_titleid_fkey",
}

// CoreCommentTable represents the 'core.comment' table
type CoreCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string

	ForeignReview string
}

// CoreComment is the schema definition for core.comment
var CoreComment = CoreCommentTable{
	Table:    "core.comment",
	ID:       "id",
	ReviewID: "reviewid",
	AuthorID: "authorid",
	Text:     "text",
	PubDate:  "pubdate",

	ForeignReview: "comment_reviewid_fkey",
}
