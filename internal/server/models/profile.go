package models

import "time"

// Profile holds the owner's personal fields. Fingerprint and CodeImage are
// derived from them on every save.
type Profile struct {
	OwnerID    string
	GivenName  string
	FamilyName string
	BirthDate  string
	Email      string
	Phone      string
	Profession string
	ZipCode    string
	City       string
	Country    string

	Fingerprint string
	CodeImage   []byte
	UpdatedAt   time.Time
}
