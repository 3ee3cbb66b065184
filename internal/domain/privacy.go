package domain

// VisibilityTier controls who may view a profile. Tiers form a strict
// ladder: each admits a subset of the viewers admitted by the previous.
type VisibilityTier string

const (
	VisibilityOpen     VisibilityTier = "open"
	VisibilityVerified VisibilityTier = "verified"
	VisibilityPremium  VisibilityTier = "premium"
	VisibilityGuardian VisibilityTier = "guardian"
	VisibilityMatched  VisibilityTier = "matched"
	VisibilityClosed   VisibilityTier = "closed"
)

// MinViewerRank returns the minimum membership rank a viewer must hold.
// Guardian and matched tiers carry an extra relationship predicate on top
// of the rank check; closed admits nobody.
func (t VisibilityTier) MinViewerRank() int {
	switch t {
	case VisibilityOpen:
		return 0
	case VisibilityVerified:
		return 1
	case VisibilityPremium, VisibilityGuardian:
		return 2
	default:
		return 0
	}
}

// PhotoVisibility tri-state for the profile picture
type PhotoVisibility string

const (
	PhotoOpen    PhotoVisibility = "open"
	PhotoMatched PhotoVisibility = "matched"
	PhotoHidden  PhotoVisibility = "hidden"
)

// ContactPolicy controls who may send contact requests.
// Contact permission is evaluated separately from view permission.
type ContactPolicy string

const (
	ContactOpen     ContactPolicy = "open"
	ContactVerified ContactPolicy = "verified"
	ContactPremium  ContactPolicy = "premium"
	ContactNone     ContactPolicy = "none"
)

// PrivacyConfiguration is owned exclusively by its profile and read fresh
// on every visibility check; settings may change between checks.
type PrivacyConfiguration struct {
	ProfileID string `gorm:"primaryKey;size:36" json:"profile_id"`

	Visibility      VisibilityTier  `gorm:"size:16;not null;default:open" json:"visibility"`
	PhotoVisibility PhotoVisibility `gorm:"size:16;not null;default:matched" json:"photo_visibility"`

	ShowAge        bool `gorm:"not null;default:true" json:"show_age"`
	ShowLocation   bool `gorm:"not null;default:true" json:"show_location"`
	ShowOccupation bool `gorm:"not null;default:true" json:"show_occupation"`
	ShowLastSeen   bool `gorm:"not null;default:false" json:"show_last_seen"`

	AllowContact            ContactPolicy `gorm:"size:16;not null;default:open" json:"allow_contact"`
	RequireGuardianApproval bool          `gorm:"not null;default:false" json:"require_guardian_approval"`
}

// TableName returns the table name
func (PrivacyConfiguration) TableName() string {
	return "privacy_configurations"
}
