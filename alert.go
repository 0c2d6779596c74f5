package plurk

import "encoding/json"

// AlertType classifies a friendship/fan notification.
type AlertType string

const (
	AlertFriendshipRequest  AlertType = "friendship_request"
	AlertFriendshipPending  AlertType = "friendship_pending"
	AlertNewFan             AlertType = "new_fan"
	AlertFriendshipAccepted AlertType = "friendship_accepted"
	AlertNewFriend          AlertType = "new_friend"
)

// alertUserKeys maps each alert type to the JSON key that carries the
// embedded user record for that type.
var alertUserKeys = map[AlertType]string{
	AlertFriendshipRequest:  "from_user",
	AlertFriendshipPending:  "to_user",
	AlertNewFan:             "new_fan",
	AlertFriendshipAccepted: "friend_info",
	AlertNewFriend:          "new_friend",
}

// Alert is a friendship/fan notification. User is the other party of the
// event; it is nil when the server sends an alert type this client does not
// know (the record is still returned rather than rejected, so new server-side
// alert types don't break alert listings).
type Alert struct {
	Type   AlertType
	User   *UserInfo
	Posted Time
}

// UnmarshalJSON implements json.Unmarshaler. The key holding the embedded
// user record depends on the alert type, so the object is decoded in two
// passes.
func (a *Alert) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   AlertType `json:"type"`
		Posted Time      `json:"posted"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Type = raw.Type
	a.Posted = raw.Posted
	a.User = nil

	key, ok := alertUserKeys[raw.Type]
	if !ok {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	userData, ok := fields[key]
	if !ok {
		return nil
	}

	var user UserInfo
	if err := json.Unmarshal(userData, &user); err != nil {
		return err
	}
	a.User = &user
	return nil
}
