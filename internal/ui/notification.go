package ui

import (
	"os"
	"os/exec"
	"strings"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogInfo  = "dialog-information"
	IconDialogWarn  = "dialog-warning"

	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"

	notificationAppName = "papr2go"
)

// Notification is a desktop notification about a device.
type Notification struct {
	Urgency string
	Icon    string
	Title   string
	Text    string
}

// NotifyInfo reports the end of an alert.
func NotifyInfo(title, text string) {
	Notify(Notification{Urgency: UrgencyLow, Icon: IconDialogInfo, Title: title, Text: text})
}

// NotifyWarn reports a raised alert.
func NotifyWarn(title, text string) {
	Notify(Notification{Urgency: UrgencyNormal, Icon: IconDialogWarn, Title: title, Text: text})
}

// NotifyError reports that the firmware is no longer running.
func NotifyError(title, text string) {
	Notify(Notification{Urgency: UrgencyCritical, Icon: IconDialogError, Title: title, Text: text})
}

// Notify shows the notification in the session of the user that owns the
// current X display.
func Notify(notification Notification) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Warning("Cannot send notification, missing env variable 'DISPLAY'!")
		return
	}

	output, err := exec.Command("who").Output()
	if err != nil {
		Warning("Cannot send notification, unable to find user of display session: %v", err)
		return
	}
	user := findDisplayUser(string(output), display)
	if user == "" {
		Warning("Cannot send notification, unable to detect user of display %s", display)
		return
	}

	output, err = exec.Command("id", "-u", user).Output()
	userId := strings.TrimSpace(string(output))
	if err != nil || userId == "" {
		Warning("Cannot send notification, unable to detect user id of %s: %v", user, err)
		return
	}

	args := notifySendArgs(notification, user, userId, display)
	if err := exec.Command("sudo", args...).Run(); err != nil {
		Error("Error sending notification '%s': %v", notification.Title, err)
	}
}

// findDisplayUser returns the user of the first session in the output of
// "who" that is attached to the given display.
func findDisplayUser(whoOutput string, display string) string {
	for _, line := range strings.Split(whoOutput, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.Contains(line, display) {
			continue
		}
		return fields[0]
	}
	return ""
}

// notifySendArgs returns the arguments of sudo that run notify-send as the
// given user on its session bus.
func notifySendArgs(notification Notification, user string, userId string, display string) []string {
	urgency := notification.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}
	args := []string{
		"-u", user,
		"DISPLAY=" + display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/" + userId + "/bus",
		"notify-send",
		"-a", notificationAppName,
		"-u", urgency,
	}
	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}
	return append(args, notification.Title, notification.Text)
}
