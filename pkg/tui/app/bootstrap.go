package teaui

import (
	"context"

	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/notify"
)

// PermissionRequester is the notification authorization surface used at
// startup.
type PermissionRequester interface {
	CheckAuthorizationStatus()
	AuthorizationStatus() notify.Status
	RequestAuthorization(ctx context.Context) (bool, error)
}

// PermissionResult is the outcome of the startup permission flow.
type PermissionResult struct {
	Status    notify.Status
	Requested bool
	Err       error
}

type permissionResultMsg struct {
	result PermissionResult
}

// RequestPermission reads the stored status and asks the user only when it
// has never been decided. A refusal is recorded like a grant; an error
// (typically ctx ending while the prompt is open) leaves nothing recorded.
func RequestPermission(ctx context.Context, p PermissionRequester, logger pslog.Logger) PermissionResult {
	p.CheckAuthorizationStatus()
	status := p.AuthorizationStatus()
	if status != notify.StatusNotDetermined {
		logger.Debug("notification permission already decided", "status", status.String())
		return PermissionResult{Status: status}
	}

	granted, err := p.RequestAuthorization(ctx)
	if err != nil {
		logger.Warn("notification permission request abandoned", "err", err)
		return PermissionResult{Status: notify.StatusNotDetermined, Requested: true, Err: err}
	}
	logger.Info("notification permission answered", "granted", granted)
	return PermissionResult{Status: p.AuthorizationStatus(), Requested: true}
}
