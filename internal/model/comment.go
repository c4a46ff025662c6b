package model

// CommentUpdate holds the client-editable part of a comment.  The date field
// is always reset by the server, so any date sent by the client is dropped.
type CommentUpdate struct {
	Text *string `json:"text"`
}
