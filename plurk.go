package plurk

import (
	"fmt"
	"strings"
)

// CommentPolicy controls who may respond to a plurk.
type CommentPolicy int

const (
	CommentsEnabled     CommentPolicy = 0
	CommentsDisabled    CommentPolicy = 1
	CommentsFriendsOnly CommentPolicy = 2
)

func (p CommentPolicy) valid() bool {
	switch p {
	case CommentsEnabled, CommentsDisabled, CommentsFriendsOnly:
		return true
	}
	return false
}

// PlurkType is the server's plurk type code.
type PlurkType int

const (
	TypePublic           PlurkType = 0
	TypePrivate          PlurkType = 1
	TypePublicResponded  PlurkType = 2
	TypePrivateResponded PlurkType = 3
)

// ReadStatus is the server's read state code on plurks and responses.
type ReadStatus int

const (
	StatusRead   ReadStatus = 0
	StatusUnread ReadStatus = 1
	StatusMuted  ReadStatus = 2
)

// Filter restricts a backward timeline query to a subset of plurks.
type Filter string

const (
	FilterNone      Filter = ""
	FilterMy        Filter = "my"
	FilterResponded Filter = "responded"
	FilterPrivate   Filter = "private"
	FilterFavorite  Filter = "favorite"
)

// Plurk is a single micro-post. Responses and Friends start empty and are
// populated in place only by Client.GetResponses.
type Plurk struct {
	ID            int64         `json:"plurk_id"`
	OwnerID       int64         `json:"owner_id"`
	UserID        int64         `json:"user_id"`
	Qualifier     string        `json:"qualifier"`
	Content       string        `json:"content"`
	ContentRaw    string        `json:"content_raw"`
	Lang          string        `json:"lang"`
	Posted        Time          `json:"posted"`
	LimitedTo     []int64       `json:"limited_to"`
	NoComments    CommentPolicy `json:"no_comments"`
	PlurkType     PlurkType     `json:"plurk_type"`
	ReadStatus    ReadStatus    `json:"is_unread"`
	Favorite      bool          `json:"favorite"`
	ResponsesSeen int           `json:"responses_seen"`
	ResponseCount int           `json:"response_count"`

	// Populated by Client.GetResponses, in server order.
	Responses []Response `json:"-"`

	// Friends maps responder ids to their user records. Populated by
	// Client.GetResponses.
	Friends UserMap `json:"-"`
}

// IsUnread reports whether the plurk is unread.
func (p *Plurk) IsUnread() bool { return p.ReadStatus == StatusUnread }

// IsPublic reports whether the plurk is visible to everyone. A nil LimitedTo
// means public.
func (p *Plurk) IsPublic() bool { return len(p.LimitedTo) == 0 }

// String renders the plurk in a single human-readable line.
func (p *Plurk) String() string {
	var b strings.Builder
	if p.ReadStatus == StatusUnread {
		b.WriteString("[unread] ")
	}
	if p.Favorite {
		b.WriteString("[fav] ")
	}
	content := p.ContentRaw
	if content == "" {
		content = p.Content
	}
	fmt.Fprintf(&b, "plurk %d: user %d %s %q", p.ID, p.OwnerID, p.Qualifier, content)
	if p.ResponseCount > 0 {
		fmt.Fprintf(&b, " (%d responses)", p.ResponseCount)
	}
	return b.String()
}

// Response is a comment attached to a plurk. The owning plurk is implied by
// the call that produced it; responses carry no back-reference.
type Response struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Qualifier  string     `json:"qualifier"`
	Content    string     `json:"content"`
	ContentRaw string     `json:"content_raw"`
	Lang       string     `json:"lang"`
	Posted     Time       `json:"posted"`
	ReadStatus ReadStatus `json:"is_unread"`
}

// String renders the response in a single human-readable line.
func (r *Response) String() string {
	var b strings.Builder
	if r.ReadStatus == StatusUnread {
		b.WriteString("[unread] ")
	}
	content := r.ContentRaw
	if content == "" {
		content = r.Content
	}
	fmt.Fprintf(&b, "user %d %s %q", r.UserID, r.Qualifier, content)
	return b.String()
}
