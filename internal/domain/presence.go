package domain

import "time"

// SitterSnapshot is the display copy of a sitter profile stored alongside the
// presence record so search can answer without a directory round trip.
type SitterSnapshot struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Specialties  []string `json:"specialties"`
	PetTypes     []string `json:"pet_types"`
	Breeds       []string `json:"breeds"`
	Experience   string   `json:"experience"`
	MaxPets      int      `json:"max_pets"`
	HourlyRate   float64  `json:"hourly_rate"`
	Bio          string   `json:"bio"`
	ProfileImage string   `json:"profile_image"`
	Followers    int      `json:"followers"`
	Following    int      `json:"following"`
}

// PresenceRecord is the ephemeral location/status entry of one sitter.
type PresenceRecord struct {
	SitterID  string         `json:"sitter_id"`
	Snapshot  SitterSnapshot `json:"sitter"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Address   string         `json:"address"`
	IsOnline  bool           `json:"is_online"`
	LastSeen  time.Time      `json:"last_seen"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GeoQuery describes a radius search around a caller position.
type GeoQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}
