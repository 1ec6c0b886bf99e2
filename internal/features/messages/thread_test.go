package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func at(sec int) time.Time {
	return time.Date(2026, 5, 1, 12, 0, sec, 0, time.UTC)
}

func idAt(sec int) primitive.ObjectID {
	return primitive.NewObjectIDFromTimestamp(at(sec))
}

func TestEffectiveRootFlattensReplyChains(t *testing.T) {
	rootID := idAt(1)
	root := Message{ID: rootID}
	require.Equal(t, rootID, EffectiveRoot(&root))

	// Replying to a reply still lands on the root
	reply := Message{ID: idAt(2), ParentID: &rootID}
	require.Equal(t, rootID, EffectiveRoot(&reply))
}

func TestBuildInboxOrdersByLatestActivity(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	// Thread A: root at t=1 with a reply at t=5. Thread B: root at t=3.
	rootA := Message{ID: idAt(1), SenderID: me, RecipientID: other, CreatedAt: at(1)}
	replyA := Message{ID: idAt(5), ParentID: &rootA.ID, SenderID: other, RecipientID: me, CreatedAt: at(5)}
	rootB := Message{ID: idAt(3), SenderID: other, RecipientID: me, CreatedAt: at(3)}

	inbox := BuildInbox(me, []Message{rootB, rootA, replyA})
	require.Len(t, inbox, 2)
	require.Equal(t, rootA.ID, inbox[0].Root.ID)
	require.Equal(t, rootB.ID, inbox[1].Root.ID)

	// The preview shows the newest message, not the root
	require.Equal(t, replyA.ID, inbox[0].LastMessage.ID)
	require.Equal(t, rootB.ID, inbox[1].LastMessage.ID)
}

func TestBuildInboxRootOnlyThreadUsesOwnTimestamp(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	root := Message{ID: idAt(7), SenderID: me, RecipientID: other, CreatedAt: at(7)}
	inbox := BuildInbox(me, []Message{root})
	require.Len(t, inbox, 1)
	require.Equal(t, at(7), inbox[0].LastMessage.CreatedAt)
}

func TestBuildInboxTieBreaksOnID(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	// Same timestamp, the later insertion (higher id) wins
	rootA := Message{ID: idAt(1), SenderID: me, RecipientID: other, CreatedAt: at(1)}
	rootB := Message{ID: idAt(2), SenderID: me, RecipientID: other, CreatedAt: at(1)}
	rootB.CreatedAt = rootA.CreatedAt

	inbox := BuildInbox(me, []Message{rootA, rootB})
	require.Len(t, inbox, 2)
	require.Equal(t, rootB.ID, inbox[0].Root.ID)
}

func TestBuildInboxSoftDeleteAsymmetry(t *testing.T) {
	sender := primitive.NewObjectID()
	recipient := primitive.NewObjectID()

	root := Message{
		ID:              idAt(1),
		SenderID:        sender,
		RecipientID:     recipient,
		DeletedBySender: true,
		CreatedAt:       at(1),
	}

	require.Empty(t, BuildInbox(sender, []Message{root}))

	theirInbox := BuildInbox(recipient, []Message{root})
	require.Len(t, theirInbox, 1)
	require.Equal(t, root.ID, theirInbox[0].Root.ID)
}

func TestBuildInboxSkipsDeletedRoots(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	root := Message{ID: idAt(1), SenderID: other, RecipientID: me, IsDeleted: true, CreatedAt: at(1)}
	reply := Message{ID: idAt(2), ParentID: &root.ID, SenderID: me, RecipientID: other, CreatedAt: at(2)}

	// The root anchors the thread: once it is gone, so is the entry
	require.Empty(t, BuildInbox(me, []Message{root, reply}))
	require.Empty(t, BuildInbox(other, []Message{root, reply}))
}

func TestBuildInboxUnreadFlag(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	root := Message{ID: idAt(1), SenderID: me, RecipientID: other, IsRead: true, CreatedAt: at(1)}
	unreadReply := Message{ID: idAt(2), ParentID: &root.ID, SenderID: other, RecipientID: me, CreatedAt: at(2)}

	inbox := BuildInbox(me, []Message{root, unreadReply})
	require.Len(t, inbox, 1)
	require.True(t, inbox[0].HasUnread)

	// The sender of the unread reply has nothing unread themselves
	theirs := BuildInbox(other, []Message{root, unreadReply})
	require.Len(t, theirs, 1)
	require.False(t, theirs[0].HasUnread)
}

func TestVisibleInThreadHidesOwnDeletedMessages(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	kept := Message{ID: idAt(1), SenderID: me, RecipientID: other}
	deleted := Message{ID: idAt(2), SenderID: me, RecipientID: other, IsDeleted: true}

	mine := VisibleInThread(me, []Message{kept, deleted})
	require.Len(t, mine, 1)
	require.Equal(t, kept.ID, mine[0].ID)

	// The counterpart still sees the deleted message's row
	theirs := VisibleInThread(other, []Message{kept, deleted})
	require.Len(t, theirs, 2)
}

func TestOtherParticipant(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	m := Message{SenderID: a, SenderName: "Ana", RecipientID: b, RecipientName: "Ben"}

	id, name := m.OtherParticipant(a)
	require.Equal(t, b, id)
	require.Equal(t, "Ben", name)

	id, name = m.OtherParticipant(b)
	require.Equal(t, a, id)
	require.Equal(t, "Ana", name)
}
