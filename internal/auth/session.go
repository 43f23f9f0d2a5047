// Package auth simulates sign-in. The role it assigns is a display concern only.
package auth

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"evidenceapi/internal/model"
)

var ErrEmailRequired = errors.New("email is required")

var wordStart = regexp.MustCompile(`(^\w|\s\w)`)

// Session is the process-wide current-user slot.
type Session struct {
	mu   sync.RWMutex
	user *model.User
	now  func() time.Time
}

func NewSession() *Session {
	return &Session{now: time.Now}
}

// Login signs email in, replacing any current user. No password is involved.
func (s *Session) Login(email string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, ErrEmailRequired
	}
	u := model.User{
		ID:    "user-" + strconv.FormatInt(s.now().UnixMilli(), 10),
		Email: email,
		Name:  DisplayName(email),
		Role:  RoleFor(email),
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return u, nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// RoleFor is Admin for any email containing "admin".
func RoleFor(email string) model.Role {
	if strings.Contains(email, "admin") {
		return model.RoleAdmin
	}
	return model.RoleInvestigator
}

// DisplayName builds a name from the local part: the first dot becomes a space and
// every word is capitalised.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.Replace(local, ".", " ", 1)
	return wordStart.ReplaceAllStringFunc(local, strings.ToUpper)
}
