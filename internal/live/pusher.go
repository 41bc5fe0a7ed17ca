package live

// Pusher is the delivery surface the stores push through; *Hub implements it.
type Pusher interface {
	Push(userID uint64, ev Event)
	PushMany(userIDs []uint64, ev Event)
}
