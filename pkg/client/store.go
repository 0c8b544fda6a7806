package client

import "sync"

// CredentialStore holds the client's credential triple: access token, refresh
// token and user id. It is the in-process analog of the browser's local
// storage and is safe for concurrent use.
type CredentialStore struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	userID       string
}

// NewCredentialStore creates an empty credential store
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// SetCredentials stores a full credential triple, as issued by login.
func (s *CredentialStore) SetCredentials(accessToken, refreshToken, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.userID = userID
}

// SetAccessToken replaces only the access token, as issued by a refresh
// exchange. The refresh token and user id are untouched: refresh does not
// rotate the session.
func (s *CredentialStore) SetAccessToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
}

// AccessToken returns the stored access token, if any
func (s *CredentialStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the stored refresh token, if any
func (s *CredentialStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// UserID returns the stored user id, if any
func (s *CredentialStore) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Clear wipes all stored credentials
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.userID = ""
}
