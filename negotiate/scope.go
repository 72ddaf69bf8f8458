package negotiate

import "github.com/sirupsen/logrus"

type release struct {
	name string
	fn   func()
}

// Scope owns a group of created resources. Each resource registers how to
// release itself only after it was created successfully, so Release never
// touches a handle that does not exist. Release runs in reverse registration
// order, which puts dependents before what they depend on.
type Scope struct {
	name     string
	log      logrus.FieldLogger
	releases []release
}

func NewScope(name string, log logrus.FieldLogger) *Scope {
	return &Scope{name: name, log: log}
}

// Defer registers fn to run when the scope is released.
func (s *Scope) Defer(name string, fn func()) {
	s.releases = append(s.releases, release{name: name, fn: fn})
}

func (s *Scope) Len() int {
	return len(s.releases)
}

// Release runs every registered function once, newest first. Calling it again
// is a no-op until new resources are registered.
func (s *Scope) Release() {
	if s == nil {
		return
	}
	for len(s.releases) > 0 {
		last := len(s.releases) - 1
		r := s.releases[last]
		s.releases = s.releases[:last]

		s.log.WithFields(logrus.Fields{"scope": s.name, "resource": r.name}).Debug("releasing")
		r.fn()
	}
}
