package messages

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EffectiveRoot resolves the thread root for a new reply. Replying to a
// reply is flattened to the reply's own root, so stored threads never grow
// deeper than root plus a flat list.
func EffectiveRoot(parent *Message) primitive.ObjectID {
	return parent.RootID()
}

// latestActivity returns the newest message of a thread. Ties on the
// timestamp fall to the higher ID, which follows insertion order.
func latestActivity(root Message, replies []Message) Message {
	latest := root
	for _, m := range replies {
		if m.CreatedAt.After(latest.CreatedAt) {
			latest = m
			continue
		}
		if m.CreatedAt.Equal(latest.CreatedAt) && latest.ID.Hex() < m.ID.Hex() {
			latest = m
		}
	}
	return latest
}

// BuildInbox groups a user's messages into inbox entries. The input is
// every message the user participates in; grouping, soft-delete exclusion
// and ordering happen here rather than in the query so the rules stay
// testable without a database.
func BuildInbox(userID primitive.ObjectID, msgs []Message) []ThreadSummary {
	roots := map[primitive.ObjectID]Message{}
	replies := map[primitive.ObjectID][]Message{}

	for _, m := range msgs {
		if m.IsRoot() {
			roots[m.ID] = m
		} else {
			replies[*m.ParentID] = append(replies[*m.ParentID], m)
		}
	}

	summaries := []ThreadSummary{}
	for id, root := range roots {
		// A deleted root takes the whole conversation entry with it
		if root.IsDeleted || root.HiddenFor(userID) {
			continue
		}

		counterpartID, counterpartName := root.OtherParticipant(userID)
		latest := latestActivity(root, replies[id])

		summaries = append(summaries, ThreadSummary{
			Root:            root,
			CounterpartID:   counterpartID,
			CounterpartName: counterpartName,
			HasUnread:       hasUnread(userID, root, replies[id]),
			LastMessage: LastMessage{
				ID:        latest.ID,
				SenderID:  latest.SenderID,
				Body:      latest.Body,
				ImageURL:  latest.ImageURL,
				CreatedAt: latest.CreatedAt,
			},
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessage, summaries[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Hex() > b.ID.Hex()
	})
	return summaries
}

func hasUnread(userID primitive.ObjectID, root Message, replies []Message) bool {
	if root.RecipientID == userID && !root.IsRead {
		return true
	}
	for _, m := range replies {
		if m.RecipientID == userID && !m.IsRead && !m.IsDeleted {
			return true
		}
	}
	return false
}

// VisibleInThread filters a thread's messages for one participant:
// individually deleted messages disappear for their sender but stay, image
// stripped, for the counterpart.
func VisibleInThread(userID primitive.ObjectID, msgs []Message) []Message {
	visible := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.IsDeleted && m.SenderID == userID {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}
