package model

import "time"

// School is a persisted school record.
// Image holds the Image Store key when read from the repository; HTTP responses
// carry it rewritten to a fetchable URL.
type School struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Contact string `json:"contact"`
	EmailID string `json:"email_id"`
	Image   string `json:"image"`
}

// Contact is a message left through the contact form.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
