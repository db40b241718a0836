package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"schoolapi/internal/model"
	"schoolapi/internal/validation"
)

// State is the submission form lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateRedirecting:
		return "redirecting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const defaultAddedMessage = "School added successfully!"

var (
	// ErrSubmitInProgress is returned while a previous submission is outstanding.
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrUnknownField     = errors.New("unknown field")
)

// Submitter sends a validated school to the API.
type Submitter interface {
	AddSchool(ctx context.Context, in validation.SchoolInput, img Image) (*AddResult, error)
}

// Redirect carries the confirmation and the created record to the listing view.
type Redirect struct {
	Message string
	School  *model.School
}

// SubmissionForm holds the pending field values and image of one form.
// It is safe for concurrent use; only one Submit runs at a time.
type SubmissionForm struct {
	api Submitter

	mu       sync.Mutex
	input    validation.SchoolInput
	image    *Image
	preview  string
	state    State
	errMsg   string
	inFlight bool
}

func NewSubmissionForm(api Submitter) *SubmissionForm {
	return &SubmissionForm{api: api}
}

// SetField sets one of name, address, city, state, contact or email_id.
func (f *SubmissionForm) SetField(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrSubmitInProgress
	}

	switch field {
	case "name":
		f.input.Name = value
	case "address":
		f.input.Address = value
	case "city":
		f.input.City = value
	case "state":
		f.input.State = value
	case "contact":
		f.input.Contact = value
	case "email_id":
		f.input.EmailID = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// AttachImage validates and stages an image, replacing any pending one.
// A rejected file clears the pending image and its preview.
func (f *SubmissionForm) AttachImage(name, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrSubmitInProgress
	}

	if err := validation.ValidateImage(contentType, int64(len(data))); err != nil {
		f.image = nil
		f.preview = ""
		f.errMsg = err.Error()
		return err
	}

	f.image = &Image{Name: name, ContentType: contentType, Data: data}
	f.preview = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	f.errMsg = ""
	return nil
}

// Preview returns a data: URL of the pending image, or "" when none is attached.
func (f *SubmissionForm) Preview() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

func (f *SubmissionForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Disabled reports whether a submission is outstanding.
func (f *SubmissionForm) Disabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// ErrorMessage is the text of the last failure, cleared on the next success.
func (f *SubmissionForm) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Submit validates locally and, when clean, posts the form. Validation
// failures never reach the network. On success the form is reset and the
// returned Redirect should be handed to the listing view.
func (f *SubmissionForm) Submit(ctx context.Context) (*Redirect, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	f.state = StateValidating
	in := validation.Normalize(f.input)
	err := validation.ValidateSchool(in, f.image != nil).Err()
	if err == nil {
		err = validation.ValidateImage(f.image.ContentType, int64(len(f.image.Data)))
	}
	if err != nil {
		f.state = StateIdle
		f.errMsg = err.Error()
		f.mu.Unlock()
		return nil, err
	}

	img := *f.image
	f.state = StateSubmitting
	f.inFlight = true
	f.mu.Unlock()

	res, err := f.api.AddSchool(ctx, in, img)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if err != nil {
		f.state = StateIdle
		f.errMsg = SubmitErrorMessage(err)
		return nil, err
	}

	f.state = StateSuccess
	msg := res.Message
	if msg == "" {
		msg = defaultAddedMessage
	}
	f.input = validation.SchoolInput{}
	f.image = nil
	f.preview = ""
	f.errMsg = ""
	f.state = StateRedirecting

	return &Redirect{Message: msg, School: res.School}, nil
}
