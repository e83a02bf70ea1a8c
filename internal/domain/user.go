package domain

const (
	RoleSitter = "sitter"
	RoleOwner  = "owner"
)

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// User is the authoritative directory record of an account, joined with its
// sitter profile and review aggregate.
type User struct {
	ID                 string   `json:"id" db:"id"`
	Name               string   `json:"name" db:"name"`
	Email              string   `json:"email" db:"email"`
	Role               string   `json:"role" db:"role"`
	ProfileImage       string   `json:"profile_image" db:"profile_image"`
	Specialties        []string `json:"specialties" db:"specialties"`
	PetTypes           []string `json:"pet_types" db:"pet_types"`
	Breeds             []string `json:"breeds" db:"breeds"`
	Experience         string   `json:"experience" db:"experience"`
	MaxPets            int      `json:"max_pets" db:"max_pets"`
	HourlyRate         float64  `json:"hourly_rate" db:"hourly_rate"`
	Bio                string   `json:"bio" db:"bio"`
	Followers          int      `json:"followers" db:"followers"`
	Following          int      `json:"following" db:"following"`
	IsSuspended        bool     `json:"is_suspended" db:"is_suspended"`
	IsBanned           bool     `json:"is_banned" db:"is_banned"`
	VerificationStatus string   `json:"verification_status" db:"verification_status"`
	Rating             float64  `json:"rating" db:"rating"`
	ReviewCount        int      `json:"review_count" db:"review_count"`
}

// IsRestricted reports whether the account must be hidden from search.
func (u *User) IsRestricted() bool {
	return u.IsSuspended || u.IsBanned
}

// IsVerified reports whether the sitter passed verification review.
func (u *User) IsVerified() bool {
	return u.VerificationStatus == VerificationVerified
}

// Snapshot copies the display fields used by the presence record.
func (u *User) Snapshot() SitterSnapshot {
	return SitterSnapshot{
		Name:         u.Name,
		Email:        u.Email,
		Specialties:  u.Specialties,
		PetTypes:     u.PetTypes,
		Breeds:       u.Breeds,
		Experience:   u.Experience,
		MaxPets:      u.MaxPets,
		HourlyRate:   u.HourlyRate,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		Followers:    u.Followers,
		Following:    u.Following,
	}
}
