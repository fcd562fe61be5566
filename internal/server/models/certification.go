// Package models defines server-side data models persisted in the record store.
package models

import "time"

// Certification is the record behind a verification code. The artifact bytes
// live in the blob store; StorageRef is the blob store's opaque key and is
// never exposed to clients.
type Certification struct {
	// ID is the public, random verification identifier.
	ID string
	// StorageRef is the blob-store key of the uploaded artifact.
	StorageRef string
	// OriginalName is the filename supplied at upload.
	OriginalName string
	// ContentType is the artifact media type, used when streaming it back.
	ContentType string
	Title       string
	Description string
	// NominalDate is the user-supplied date text, stored as given.
	NominalDate string
	CreatedAt   time.Time
	// CodeImage is the PNG QR code of the verification URL, rendered at issuance.
	CodeImage  []byte
	Visibility string
}
