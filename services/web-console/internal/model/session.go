package model

// Session is a point-in-time copy of the console's session state.
type Session struct {
	AccessToken    string       `json:"-"`
	SecondaryToken string       `json:"-"`
	User           *UserProfile `json:"user,omitempty"`
	Loading        bool         `json:"loading"`
}

// IsAuthenticated reports whether the session holds an access token.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}
