package plurk

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAlertUserKeys(t *testing.T) {
	cases := []struct {
		alertType AlertType
		userKey   string
	}{
		{AlertFriendshipRequest, "from_user"},
		{AlertFriendshipPending, "to_user"},
		{AlertNewFan, "new_fan"},
		{AlertFriendshipAccepted, "friend_info"},
		{AlertNewFriend, "new_friend"},
	}

	for _, tc := range cases {
		t.Run(string(tc.alertType), func(t *testing.T) {
			fixture := fmt.Sprintf(
				`{"type":%q,"posted":"Fri, 05 Jun 2009 23:07:13 GMT",%q:{"id":3,"nick_name":"alice"}}`,
				tc.alertType, tc.userKey,
			)

			var a Alert
			require.NoError(t, json.Unmarshal([]byte(fixture), &a))

			assert.Equal(t, tc.alertType, a.Type)
			require.NotNil(t, a.User)
			assert.Equal(t, int64(3), a.User.ID)
			assert.Equal(t, "alice", a.User.Nickname)
			assert.False(t, a.Posted.IsZero())
		})
	}
}

func TestDecodeAlertUnknownType(t *testing.T) {
	fixture := `{"type":"mystery_event","posted":"Fri, 05 Jun 2009 23:07:13 GMT","from_user":{"id":3}}`

	var a Alert
	require.NoError(t, json.Unmarshal([]byte(fixture), &a), "unknown alert types are not a decode failure")

	assert.Equal(t, AlertType("mystery_event"), a.Type)
	assert.Nil(t, a.User)
	assert.False(t, a.Posted.IsZero())
}

func TestDecodeAlertMissingUser(t *testing.T) {
	var a Alert
	require.NoError(t, json.Unmarshal([]byte(`{"type":"new_fan"}`), &a))

	assert.Equal(t, AlertNewFan, a.Type)
	assert.Nil(t, a.User)
	assert.True(t, a.Posted.IsZero())
}

func TestDecodeAlertList(t *testing.T) {
	fixture := `[
		{"type":"friendship_request","from_user":{"id":1,"nick_name":"alice"}},
		{"type":"new_fan","new_fan":{"id":2,"nick_name":"bob"}}
	]`

	var alerts []Alert
	require.NoError(t, json.Unmarshal([]byte(fixture), &alerts))

	require.Len(t, alerts, 2)
	assert.Equal(t, "alice", alerts[0].User.Nickname)
	assert.Equal(t, "bob", alerts[1].User.Nickname)
}
