// ABOUTME: Applies permission decisions through the presentation layer
// ABOUTME: Turns a denial into a toast or a login prompt before any network call

package permissions

// Identity exposes the role of the current session
type Identity interface {
	CurrentRole() (Role, bool)
}

// Notifier receives the side effects of a denial
type Notifier interface {
	Toast(level ToastLevel, message string)
	OpenLogin()
}

// ToastLevel categorizes a transient user message
type ToastLevel int

const (
	ToastSuccess ToastLevel = iota
	ToastError
	ToastInfo
)

// Checker answers "may the current session do X" and reports denials
type Checker struct {
	identity Identity
	notifier Notifier
}

// NewChecker creates a checker bound to a session and a presenter
func NewChecker(identity Identity, notifier Notifier) *Checker {
	return &Checker{identity: identity, notifier: notifier}
}

// Decide returns the decision for the current session without side effects
func (c *Checker) Decide(a Action) Decision {
	role, ok := c.identity.CurrentRole()
	return Decide(role, ok, a)
}

// Check returns true when the action is allowed; otherwise it reports the
// denial through the notifier and returns false.
func (c *Checker) Check(a Action) bool {
	d := c.Decide(a)
	if d.Allowed {
		return true
	}

	if c.notifier != nil {
		c.notifier.Toast(ToastError, d.Message)
		if d.Intent == IntentLogin {
			c.notifier.OpenLogin()
		}
	}
	return false
}
