package plurk

import (
	"encoding/json"
	"strconv"
	"time"
)

// Time wraps time.Time to decode the API's RFC 1123 "posted" timestamps
// (e.g. "Fri, 05 Jun 2009 23:07:13 GMT"). A missing or empty value decodes
// to the zero Time.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC1123, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	// The wire format names the zone GMT, not UTC.
	return json.Marshal(t.UTC().Format("Mon, 02 Jan 2006 15:04:05") + " GMT")
}

// Gender is the server's numeric gender code on a user record.
type Gender int

const (
	GenderFemale Gender = 0
	GenderMale   Gender = 1
)

// Privacy is a profile's timeline visibility setting.
type Privacy string

const (
	PrivacyWorld       Privacy = "world"
	PrivacyOnlyFriends Privacy = "only_friends"
	PrivacyOnlyMe      Privacy = "only_me"
)

// UserInfo is the user record embedded in profiles, timelines and alerts.
// Every response that carries user data produces a fresh copy; there is no
// identity map.
type UserInfo struct {
	ID              int64
	UID             int64
	Nickname        string
	DisplayName     string
	Timezone        string
	Karma           float64
	Gender          Gender
	Relationship    string
	AvatarVersion   int
	DateOfBirth     string
	FullName        string
	Location        string
	HasProfileImage bool
}

// UnmarshalJSON implements json.Unmarshaler. The server sends
// has_profile_image as 0/1, so the record cannot be decoded directly.
func (u *UserInfo) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID              int64   `json:"id"`
		UID             int64   `json:"uid"`
		Nickname        string  `json:"nick_name"`
		DisplayName     string  `json:"display_name"`
		Timezone        string  `json:"timezone"`
		Karma           float64 `json:"karma"`
		Gender          Gender  `json:"gender"`
		Relationship    string  `json:"relationship"`
		AvatarVersion   int     `json:"avatar"`
		DateOfBirth     string  `json:"date_of_birth"`
		FullName        string  `json:"full_name"`
		Location        string  `json:"location"`
		HasProfileImage int     `json:"has_profile_image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.ID = raw.ID
	u.UID = raw.UID
	u.Nickname = raw.Nickname
	u.DisplayName = raw.DisplayName
	u.Timezone = raw.Timezone
	u.Karma = raw.Karma
	u.Gender = raw.Gender
	u.Relationship = raw.Relationship
	u.AvatarVersion = raw.AvatarVersion
	u.DateOfBirth = raw.DateOfBirth
	u.FullName = raw.FullName
	u.Location = raw.Location
	u.HasProfileImage = raw.HasProfileImage == 1
	return nil
}

// Name returns the user's display name, falling back to the nickname when no
// display name is set.
func (u *UserInfo) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Nickname
}

// UserMap maps a user id to its UserInfo. The server keys these objects by
// the id rendered as a string, so decoding converts the keys back.
type UserMap map[int64]UserInfo

// UnmarshalJSON implements json.Unmarshaler.
func (m *UserMap) UnmarshalJSON(data []byte) error {
	var raw map[string]UserInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(UserMap, len(raw))
	for key, user := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return err
		}
		out[id] = user
	}
	*m = out
	return nil
}

// UnreadCount is the response body of Polling/getUnreadCount.
type UnreadCount struct {
	All       int `json:"all"`
	My        int `json:"my"`
	Private   int `json:"private"`
	Responded int `json:"responded"`
}

// UserChannel is the realtime channel bootstrap data returned by
// Realtime/getUserChannel. CometServer is the endpoint the realtime
// subscriber connects to; ChannelName identifies the user's event stream.
type UserChannel struct {
	CometServer string `json:"comet_server"`
	ChannelName string `json:"channel_name"`
}
