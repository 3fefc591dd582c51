package db

import "database/sql"

// Timestamps are Unix nanoseconds in UTC.

type TodoItem struct {
	ID                            int64
	OwnerID                       string
	Title                         string
	Details                       string
	DetailsHtml                   string
	CreatedAt                     int64
	ModifiedAt                    int64
	TargetAt                      int64
	CurrentEventID                sql.NullInt64
	ReminderEnabled               bool
	ReminderTime                  sql.NullInt64
	ReminderSent                  bool
	ReminderNotificationCount     int64
	ReminderFirstNotificationTime sql.NullInt64
}

type Event struct {
	ID        int64
	TodoID    int64
	StatusID  int64
	Timestamp int64
}

type KivEntry struct {
	ID        int64
	TodoID    int64
	UserID    string
	EnteredAt int64
	ExitedAt  sql.NullInt64
	IsActive  bool
}

type TodoShare struct {
	OwnerID   string
	ViewerID  string
	Active    bool
	CreatedAt int64
}

type Notification struct {
	ID        string
	TodoID    int64
	OwnerID   string
	Title     string
	Message   string
	Sequence  int64
	Final     bool
	CreatedAt int64
}

type KvStore struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}
