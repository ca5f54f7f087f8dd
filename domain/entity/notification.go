package entity

import "time"

type NotificationKind string

const (
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindError   NotificationKind = "error"
	NotificationKindWarning NotificationKind = "warning"
	NotificationKindInfo    NotificationKind = "info"
)

type Notification struct {
	ID    string
	Kind  NotificationKind
	Title string
	Body  string
	// TTL が0以下なら手動で閉じるまで残る
	TTL     time.Duration
	Leaving bool
}
