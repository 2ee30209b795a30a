package domain

import "time"

// Review is a tester's rating of an approved app.
type Review struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	AppID      string    `json:"app_id" bson:"app_id"`
	TesterID   string    `json:"tester_id" bson:"tester_id"`
	TesterName string    `json:"tester_name" bson:"tester_name"`
	Rating     int       `json:"rating" bson:"rating"`
	Comment    string    `json:"comment" bson:"comment"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// AuthoredBy reports whether userID wrote the review.
func (r *Review) AuthoredBy(userID string) bool {
	return userID != "" && r.TesterID == userID
}
