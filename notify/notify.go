// Package notify abstracts the platform notification capability. The
// board never depends on a sink being present: a missing or denied
// capability simply means alerts are skipped.
package notify

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Permission is the state of the notification capability.
type Permission string

const (
	PermissionUnsupported  Permission = "unsupported"
	PermissionUndetermined Permission = "undetermined"
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
)

// Alert is a one-shot due-date notification for a single card.
type Alert struct {
	CardID string `json:"cardId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
}

// Notifier delivers alerts somewhere. Permission is queried on every scan
// tick; RequestPermission is called once at startup.
type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) Permission
	Notify(ctx context.Context, alert Alert) error
}

// Noop is the absent capability. Permission is always unsupported and
// Notify does nothing.
type Noop struct{}

func (Noop) Permission() Permission                       { return PermissionUnsupported }
func (Noop) RequestPermission(context.Context) Permission { return PermissionUnsupported }
func (Noop) Notify(context.Context, Alert) error          { return nil }

// Log writes alerts to the application log. Always granted.
type Log struct {
	Logger *log.Logger
}

func (Log) Permission() Permission                       { return PermissionGranted }
func (Log) RequestPermission(context.Context) Permission { return PermissionGranted }

func (l Log) Notify(ctx context.Context, alert Alert) error {
	l.Logger.WithFields(log.Fields{
		"card":  alert.CardID,
		"state": alert.State,
	}).Infof("%s: %s", alert.Title, alert.Body)
	return nil
}
