package profile

import "time"

// SingletonUserID is the key of the one profile this service manages.
const SingletonUserID = 1

const (
	DefaultName      = "Anna Smith"
	DefaultEmail     = "anna.smith@example.com"
	DefaultInterests = "coding"
)

// Document is the caller-controlled part of a profile. Nil fields were not
// supplied and are not persisted.
type Document struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Interests *string `json:"interests,omitempty"`
}

type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    int       `gorm:"column:userid;not null;uniqueIndex"`
	Document  Document  `gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Source tells where a profile returned by GetProfile came from.
type Source string

const (
	SourceStored   Source = "stored"
	SourceDefault  Source = "default"
	SourceFallback Source = "fallback"
)

// DefaultProfile is served when no profile has been stored yet. It carries
// no user id and no document id.
func DefaultProfile() Profile {
	name, email, interests := DefaultName, DefaultEmail, DefaultInterests
	return Profile{
		Document: Document{
			Name:      &name,
			Email:     &email,
			Interests: &interests,
		},
	}
}
