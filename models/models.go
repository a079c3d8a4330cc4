package models

func (session *Session) IsAdmin() bool {
	return session.Role == RoleAdmin
}

func (session *Session) IsStudent() bool {
	return session.Role == RoleStudent
}

// HomePath is where a freshly logged-in user is sent.
func (session *Session) HomePath() string {
	if session.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/student/dashboard"
}
