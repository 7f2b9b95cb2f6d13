package reminder

import "github.com/julianstephens/habitual/internal/models"

// DeniedAlert is shown whenever notifications are found to be denied.
const DeniedAlert = "You have denied notifications. Please enable them in your system settings."

// Prompter asks the user whether reminders may be delivered. Returning
// PermissionUnasked means the prompt was dismissed without an answer.
type Prompter interface {
	RequestPermission() models.Permission
}

// Alerter shows a one-off message to the user.
type Alerter interface {
	Alert(message string)
}

type PrompterFunc func() models.Permission

func (f PrompterFunc) RequestPermission() models.Permission { return f() }

type AlerterFunc func(message string)

func (f AlerterFunc) Alert(message string) { f(message) }

// Resolve runs the startup permission check. An unasked state prompts once;
// a denied state, new or previous, alerts once; granted does nothing.
// Denied is terminal and is never re-prompted.
func Resolve(state models.Permission, prompter Prompter, alerter Alerter) models.Permission {
	switch state {
	case models.PermissionGranted:
		return state
	case models.PermissionDenied:
		alert(alerter)
		return state
	}

	if prompter == nil {
		return models.PermissionUnasked
	}
	answer := models.ParsePermission(string(prompter.RequestPermission()))
	if answer == models.PermissionDenied {
		alert(alerter)
	}
	return answer
}

func alert(a Alerter) {
	if a != nil {
		a.Alert(DeniedAlert)
	}
}
