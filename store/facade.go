package store

import (
	"kobetex/models"
	"kobetex/persist"
	"kobetex/utils"
)

// --- Identity ---

// Register creates a user on the first purchase gate. Email must be
// unique; it is the correlation key to the order history.
func (s *Store) Register(name, email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return models.User{}, ErrEmailTaken
		}
	}
	u := models.User{
		ID:           utils.GetUUID(),
		Name:         name,
		Email:        email,
		Password:     password,
		RegisteredAt: s.Now(),
	}
	s.users = append(s.users, u)
	s.currentUser = u.ID
	s.light.Set(persist.KeyUsers, s.users)
	s.light.Set(persist.KeyCurrentUser, s.currentUser)
	return u, nil
}

// Login matches email and the opaque password string, then points the
// process-wide session at the user.
func (s *Store) Login(email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email && u.Password == password {
			s.currentUser = u.ID
			s.light.Set(persist.KeyCurrentUser, s.currentUser)
			return u, nil
		}
	}
	return models.User{}, ErrBadLogin
}

// Logout clears the current-user pointer.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = ""
	s.light.Set(persist.KeyCurrentUser, "")
}

// CurrentUser resolves the session pointer, if any.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == "" {
		return models.User{}, false
	}
	for _, u := range s.users {
		if u.ID == s.currentUser {
			return u, true
		}
	}
	return models.User{}, false
}

// UserByID looks a user up without touching the session pointer.
func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// --- Admin gate ---

// CheckAdminPassword is a plaintext comparison against the shared
// password in the light tier. No lockout, no hashing: a UI gate only.
func (s *Store) CheckAdminPassword(pw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pw != "" && pw == s.adminPassword
}

// SetAdminPassword replaces the shared password.
func (s *Store) SetAdminPassword(pw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminPassword = pw
	s.light.Set(persist.KeyAdminPassword, pw)
}

// --- Inventory ---

// ResetSession restores a session to full capacity and persists the
// seat table.
func (s *Store) ResetSession(id string) ([]models.Session, bool) {
	if _, ok := s.Inventory.Get(id); !ok {
		return nil, false
	}
	s.Inventory.Reset(id)
	sessions := s.Inventory.List()
	s.light.Set(persist.KeySessions, sessions)
	s.emit("sessions", sessions)
	return sessions, true
}

// --- Global resources ---

// Resource kinds the admin can upload.
const (
	ResourceRegistrationForm = "registrationForm"
	ResourceContract         = "contract"
	ResourceCourseContent    = "courseContent"
)

// SetResource stores one admin-uploaded artifact. Oversized payloads
// are rejected before anything is committed.
func (s *Store) SetResource(kind, name, url string) error {
	if name == "" || url == "" {
		return ErrEmptyResource
	}
	if len(url) > MaxUploadBytes {
		return ErrUploadTooBig
	}

	s.mu.Lock()
	res := &models.Resource{Name: name, URL: url}
	switch kind {
	case ResourceRegistrationForm:
		s.resources.RegistrationForm = res
	case ResourceContract:
		s.resources.Contract = res
	case ResourceCourseContent:
		s.resources.CourseContent = res
	default:
		s.mu.Unlock()
		return ErrUnknownKind
	}
	s.persistResourcesLocked()
	s.mu.Unlock()

	s.Notifier.Push("Ressource mise à jour", "success")
	s.emit("resources", s.Resources())
	return nil
}

// SetWhatsAppLink updates the group invite link.
func (s *Store) SetWhatsAppLink(link string) {
	s.mu.Lock()
	s.resources.WhatsAppLink = link
	s.persistResourcesLocked()
	s.mu.Unlock()

	s.emit("resources", s.Resources())
}

// Resources returns a snapshot of the registry.
func (s *Store) Resources() models.GlobalResources {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resources
}
