package domain

type QueueItem struct {
	QueueItemID int64     `json:"queue_item_id"`
	Length      int       `json:"length,omitempty"`
	ImageKey    string    `json:"image_key,omitempty"`
	OneLine     OneLine   `json:"one_line"`
	TwoLine     TwoLine   `json:"two_line"`
	ThreeLine   ThreeLine `json:"three_line"`
}

type QueueOp string

const (
	QueueRemove QueueOp = "remove"
	QueueInsert QueueOp = "insert"
)

// QueueChange is one splice operation against a zone queue.
type QueueChange struct {
	Operation QueueOp     `json:"operation"`
	Index     int         `json:"index"`
	Count     int         `json:"count,omitempty"`
	Items     []QueueItem `json:"items,omitempty"`
}
