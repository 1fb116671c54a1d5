package models

// CapabilityKind identifies a platform-gated permission.
type CapabilityKind string

const (
	CapabilityCamera        CapabilityKind = "camera"
	CapabilityPhotoLibrary  CapabilityKind = "photo_library"
	CapabilityNotifications CapabilityKind = "notifications"
)

// AllCapabilityKinds lists every capability the client polls.
func AllCapabilityKinds() []CapabilityKind {
	return []CapabilityKind{CapabilityCamera, CapabilityPhotoLibrary, CapabilityNotifications}
}

// CapabilityStatus is the platform's authorization answer for one capability.
// It is never persisted; it is recomputed per poll.
type CapabilityStatus string

const (
	CapabilityNotDetermined CapabilityStatus = "not_determined"
	CapabilityDenied        CapabilityStatus = "denied"
	CapabilityAuthorized    CapabilityStatus = "authorized"
	CapabilityLimited       CapabilityStatus = "limited"
	CapabilityRestricted    CapabilityStatus = "restricted"
)

// IsGranted reports whether the capability is usable (full or limited access).
func (s CapabilityStatus) IsGranted() bool {
	return s == CapabilityAuthorized || s == CapabilityLimited
}

// CanRequest reports whether the platform would still show a prompt.
// Once denied or restricted, the only recovery path is external Settings.
func (s CapabilityStatus) CanRequest() bool {
	return s == CapabilityNotDetermined
}
