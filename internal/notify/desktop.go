package notify

import (
	"os/exec"
	"strconv"
)

// notifySend delivers desktop notifications through the notify-send binary.
type notifySend struct {
	appName string
}

// NewDesktopSink returns the production DesktopSink.
func NewDesktopSink(appName string) DesktopSink {
	if appName == "" {
		appName = "tasklight"
	}
	return &notifySend{appName: appName}
}

// Available reports whether notify-send can be invoked at all. This is the
// permission probe: absence behaves like a denied permission.
func (n *notifySend) Available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Send shells out to notify-send. Overdue notifications are critical so the
// desktop keeps them on screen until dismissed.
func (n *notifySend) Send(dn DesktopNotification) error {
	args := []string{"-a", n.appName}

	if dn.RequireInteraction {
		args = append(args, "-u", "critical")
	} else {
		args = append(args, "-u", "normal", "-t", strconv.Itoa(10_000))
	}
	if dn.Icon != "" {
		args = append(args, "-i", dn.Icon)
	}
	if dn.Tag != "" {
		args = append(args, "-h", "string:x-dedup-tag:"+dn.Tag)
	}

	args = append(args, dn.Title)
	if dn.Body != "" {
		args = append(args, dn.Body)
	}

	return exec.Command("notify-send", args...).Run()
}
