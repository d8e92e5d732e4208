package registerclient

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Phase is the UI phase of a Form.
type Phase int

const (
	// PhaseIdle accepts edits and submission.
	PhaseIdle Phase = iota
	// PhaseSubmitting has a request in flight; further submissions are refused.
	PhaseSubmitting
	// PhaseShowingErrors shows field errors or a general error; edits and
	// resubmission are allowed.
	PhaseShowingErrors
	// PhaseShowingSuccess shows the confirmation until Reset.
	PhaseShowingSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseSubmitting:
		return "Submitting"
	case PhaseShowingErrors:
		return "ShowingErrors"
	case PhaseShowingSuccess:
		return "ShowingSuccess"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Field keys accepted by SetField and used in field errors.
const (
	FieldName                 = "name"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
)

const (
	// MessageNetworkError is shown when no usable answer was received.
	MessageNetworkError = "A network error occurred."
	// MessageRegistrationFailed is shown for a failure the server did not describe.
	MessageRegistrationFailed = "Registration failed."
)

var (
	// ErrSubmitInProgress is returned by Submit while a submission is in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")
	// ErrAlreadyRegistered is returned by Submit after a successful registration
	// until Reset is called.
	ErrAlreadyRegistered = errors.New("registration already completed")
	// ErrUnknownField is returned by SetField for a key that is not a form field.
	ErrUnknownField = errors.New("unknown form field")
)

// Submitter sends a registration to the server.
type Submitter interface {
	Register(ctx context.Context, fields Fields, token string) (*Response, error)
}

// State is a snapshot of a Form. Its maps are copies owned by the caller.
type State struct {
	Phase  Phase
	Fields Fields
	// Errors holds the field messages of the last rejected submission.
	Errors map[string][]string
	// General is the error shown when the failure is not tied to a field.
	General string
	// User is set once the registration succeeded.
	User *User
}

// Option configures a Form.
type Option func(*Form)

// WithTimeout bounds each submission, token retrieval included. Hitting the
// bound is reported as a network error.
func WithTimeout(d time.Duration) Option {
	return func(f *Form) {
		f.timeout = d
	}
}

// Form holds the field values and UI phase of the registration form. All
// methods are safe for concurrent use; at most one submission is in flight.
type Form struct {
	submitter Submitter
	tokens    TokenProvider
	timeout   time.Duration

	mu      sync.Mutex
	phase   Phase
	fields  Fields
	errors  map[string][]string
	general string
	user    *User
}

// NewForm creates an idle Form.
func NewForm(submitter Submitter, tokens TokenProvider, opts ...Option) *Form {
	f := &Form{
		submitter: submitter,
		tokens:    tokens,
		errors:    map[string][]string{},
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// SetField edits a field value and clears the errors shown for it. The phase
// is left unchanged.
func (f *Form) SetField(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.fields.Name = value
	case FieldEmail:
		f.fields.Email = value
	case FieldPassword:
		f.fields.Password = value
	case FieldPasswordConfirmation:
		f.fields.PasswordConfirmation = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	delete(f.errors, field)

	return nil
}

// Submit sends the current fields and blocks until the outcome is applied to
// the form state. It returns ErrSubmitInProgress or ErrAlreadyRegistered
// without sending anything when the phase forbids a submission. A returned
// error wrapping ErrTransport means the form now shows the network error;
// server answers, including rejections, return nil and are read through State.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	switch f.phase {
	case PhaseSubmitting:
		f.mu.Unlock()

		return ErrSubmitInProgress
	case PhaseShowingSuccess:
		f.mu.Unlock()

		return ErrAlreadyRegistered
	}
	f.phase = PhaseSubmitting
	f.errors = map[string][]string{}
	f.general = ""
	fields := f.fields
	f.mu.Unlock()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	res, err := f.send(ctx, fields)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case err != nil:
		f.phase = PhaseShowingErrors
		f.general = MessageNetworkError

		return err
	case res.Success():
		f.phase = PhaseShowingSuccess
		f.fields = Fields{}
		f.user = res.User
	case len(res.Errors) > 0:
		f.phase = PhaseShowingErrors
		f.errors = cloneErrors(res.Errors)
	default:
		f.phase = PhaseShowingErrors
		f.general = res.Message
		if f.general == "" {
			f.general = MessageRegistrationFailed
		}
	}

	return nil
}

func (f *Form) send(ctx context.Context, fields Fields) (*Response, error) {
	token, err := f.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not obtain anti-forgery token: %w", ErrTransport, err)
	}

	res, err := f.submitter.Register(ctx, fields, token)
	if err != nil {
		if !errors.Is(err, ErrTransport) {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}

		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%w: empty response", ErrTransport)
	}

	return res, nil
}

// Reset clears the fields, errors and registered user and returns to Idle.
// A submission in flight is not interrupted; its outcome still applies.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != PhaseSubmitting {
		f.phase = PhaseIdle
	}
	f.fields = Fields{}
	f.errors = map[string][]string{}
	f.general = ""
	f.user = nil
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	var user *User
	if f.user != nil {
		u := *f.user
		user = &u
	}

	return State{
		Phase:   f.phase,
		Fields:  f.fields,
		Errors:  cloneErrors(f.errors),
		General: f.general,
		User:    user,
	}
}

// Welcome renders the confirmation shown after a successful registration,
// or "" before one.
func (f *Form) Welcome() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != PhaseShowingSuccess || f.user == nil {
		return ""
	}

	return fmt.Sprintf("Welcome, %s! Your account has been created.", f.user.Name)
}

func cloneErrors(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, msgs := range in {
		out[k] = slices.Clone(msgs)
	}

	return out
}
