package user

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store provides file-based storage for user profiles, one JSON document per
// user keyed by email.
type Store struct {
	basePath string
}

// NewStore creates a new Store and ensures the base directory exists.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory %s: %w", basePath, err)
	}
	return &Store{basePath: basePath}, nil
}

// sanitizeEmail makes an email address safe for filenames.
func sanitizeEmail(email string) string {
	replacer := strings.NewReplacer("@", "_at_", "/", "-", ":", "-")
	return replacer.Replace(strings.ToLower(email))
}

func (s *Store) profilePath(email string) string {
	return filepath.Join(s.basePath, sanitizeEmail(email)+".json")
}

// Save stores a profile, overwriting any previous version.
func (s *Store) Save(p *Profile) error {
	if p.Email == "" {
		return fmt.Errorf("profile has no email")
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(s.profilePath(p.Email), data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}
	return nil
}

// Get retrieves a profile by email.
func (s *Store) Get(email string) (*Profile, error) {
	data, err := os.ReadFile(s.profilePath(email))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile for %s: %w", email, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

// Exists checks whether a profile is stored for the given email.
func (s *Store) Exists(email string) bool {
	_, err := os.Stat(s.profilePath(email))
	return !os.IsNotExist(err)
}
