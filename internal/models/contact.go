package models

import "time"

// Subjects accepted by the contact form.
var ContactSubjects = []string{
	"build-review",
	"component-question",
	"compatibility",
	"suggestions",
	"other",
}

// BuildPurposes are the tags a sender can tick on the contact form.
var BuildPurposes = []string{
	"gaming",
	"work",
	"content-creation",
	"streaming",
	"general",
	"other",
}

// ContactMessage is immutable once stored.
type ContactMessage struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	BuildPurpose []string  `json:"buildPurpose"`
	CreatedAt    time.Time `json:"createdAt"`
}

type NewContactMessage struct {
	Name         string
	Email        string
	Subject      string
	Message      string
	BuildPurpose []string
}
