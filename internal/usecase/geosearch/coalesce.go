package geosearch

import (
	"strings"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
)

// summaryFromPresence builds a summary from the cached snapshot alone.
func summaryFromPresence(rec *domain.PresenceRecord) *SitterSummary {
	snap := rec.Snapshot
	return &SitterSummary{
		ID:    rec.SitterID,
		Name:  snap.Name,
		Email: snap.Email,
		Location: Location{
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Address:   rec.Address,
		},
		Specialties:        nonNil(snap.Specialties),
		Experience:         snap.Experience,
		PetTypes:           nonNil(snap.PetTypes),
		Breeds:             nonNil(snap.Breeds),
		HourlyRate:         snap.HourlyRate,
		MaxPets:            snap.MaxPets,
		Bio:                snap.Bio,
		IsOnline:           rec.IsOnline,
		LastSeen:           rec.LastSeen,
		ProfileImage:       snap.ProfileImage,
		Images:             imagesOf(snap.ProfileImage),
		Followers:          snap.Followers,
		Following:          snap.Following,
		VerificationStatus: domain.VerificationPending,
	}
}

// applyDirectory overlays authoritative directory fields on s. A field keeps
// its cached value when the directory field is empty.
func applyDirectory(s *SitterSummary, u *domain.User) {
	s.Name = coalesce(u.Name, s.Name)
	s.Email = coalesce(u.Email, s.Email)
	s.ProfileImage = coalesce(u.ProfileImage, s.ProfileImage)
	s.Images = imagesOf(s.ProfileImage)
	s.Specialties = coalesceSlice(u.Specialties, s.Specialties)
	s.PetTypes = coalesceSlice(u.PetTypes, s.PetTypes)
	s.Breeds = coalesceSlice(u.Breeds, s.Breeds)
	s.Experience = coalesce(u.Experience, s.Experience)
	s.HourlyRate = coalesceNumber(u.HourlyRate, s.HourlyRate)
	s.MaxPets = coalesceNumber(u.MaxPets, s.MaxPets)
	s.Bio = coalesce(u.Bio, s.Bio)
	s.Followers = coalesceNumber(u.Followers, s.Followers)
	s.Following = coalesceNumber(u.Following, s.Following)

	s.Rating = u.Rating
	s.Reviews = u.ReviewCount
	s.VerificationStatus = coalesce(u.VerificationStatus, domain.VerificationPending)
	s.IsVerified = u.IsVerified()
}

func coalesce(primary, fallback string) string {
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}

func coalesceSlice[T any](primary, fallback []T) []T {
	if len(primary) > 0 {
		return primary
	}
	return nonNil(fallback)
}

func coalesceNumber[T int | float64](primary, fallback T) T {
	if primary != 0 {
		return primary
	}
	return fallback
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func imagesOf(profileImage string) []string {
	if profileImage == "" {
		return []string{}
	}
	return []string{profileImage}
}
