package plurk

// OwnProfile is the authenticated user's profile, returned by Login and
// carrying the view the dashboard renders: unread counters, recent plurks
// and the user records of their owners.
type OwnProfile struct {
	UserInfo          UserInfo `json:"user_info"`
	UnreadCount       int      `json:"unread_count"`
	AlertsCount       int      `json:"alerts_count"`
	Privacy           Privacy  `json:"privacy"`
	FansCount         int      `json:"fans_count"`
	FriendsCount      int      `json:"friends_count"`
	Plurks            []Plurk  `json:"plurks"`
	PlurksUsers       UserMap  `json:"plurks_users"`
	HasReadPermission bool     `json:"has_read_permission"`
}

// PublicProfile is another user's profile as visible to the caller. It is a
// separate flat struct rather than an extension of OwnProfile; the two views
// share fields but not behavior.
type PublicProfile struct {
	UserInfo     UserInfo `json:"user_info"`
	Privacy      Privacy  `json:"privacy"`
	FansCount    int      `json:"fans_count"`
	FriendsCount int      `json:"friends_count"`
	Plurks       []Plurk  `json:"plurks"`

	// Relationship of the viewer to this user. All false when the caller
	// is not logged in.
	AreFriends  bool `json:"are_friends"`
	IsFan       bool `json:"is_fan"`
	IsFollowing bool `json:"is_following"`
}
