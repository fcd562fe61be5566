package common

const (
	// VerifyPathSegment is the path embedded in every issued QR code.
	// Changing it invalidates all codes already printed.
	VerifyPathSegment = "/verify/"

	// DefaultProfileOwner is the owner id of the installation's single profile.
	DefaultProfileOwner = "current-user"

	// VisibilityPublic and VisibilityPrivate are the two certification visibility values.
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)
