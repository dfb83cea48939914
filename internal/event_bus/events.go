package event_bus

import "time"

const (
	TransactionChangedType  EventType = "transaction.changed"
	UserSettingsUpdatedType EventType = "user.settings.updated"
)

// TransactionChanged is published after a transaction of the user was created or deleted.
type TransactionChanged struct {
	UserId        int
	TransactionId int
	Date          time.Time
	Deleted       bool
}

type UserSettingsUpdated struct {
	UserId int
}
