package models

import "time"

// Session format labels for TherapistProfile.SessionFormat.
const (
	FormatInPerson = "in-person"
	FormatOnline   = "online"
	FormatBoth     = "both"
)

// TherapistProfile is a therapist as published by onboarding. The core treats
// profiles as immutable snapshots; only slot state changes after creation.
type TherapistProfile struct {
	ID            string              `bson:"id" json:"id"`
	Name          string              `bson:"name" json:"name"`
	Email         string              `bson:"email" json:"email,omitempty"`
	Bio           string              `bson:"bio" json:"bio,omitempty"`
	Specialties   []string            `bson:"specialties" json:"specialties"`
	Languages     []string            `bson:"languages" json:"languages"`
	SessionFormat string              `bson:"sessionFormat" json:"sessionFormat"` // "in-person", "online" or "both"
	Rate          float64             `bson:"rate" json:"rate"`                   // per session, non-negative
	Rating        float64             `bson:"rating" json:"rating"`               // 0-5
	Location      string              `bson:"location" json:"location,omitempty"`
	Availability  map[string][]string `bson:"availability" json:"availability,omitempty"` // weekday label -> ordered time labels
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// OffersFormat reports whether the therapist can serve the requested session
// format. A therapist listed as "both" satisfies any request.
func (t TherapistProfile) OffersFormat(format string) bool {
	if format == "" {
		return true
	}
	return t.SessionFormat == format || t.SessionFormat == FormatBoth
}
