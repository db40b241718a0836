package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"schoolapi/internal/model"
)

// FlashWindow is how long a carried success message stays visible.
const FlashWindow = 3 * time.Second

const msgNoSchools = "No schools found."

// Lister fetches every school record.
type Lister interface {
	ListSchools(ctx context.Context) ([]model.School, error)
}

// ListingView renders the school grid. A message carried from a successful
// submission is shown until FlashWindow has elapsed since the view was created.
type ListingView struct {
	api Lister
	now func() time.Time

	mu         sync.Mutex
	schools    []model.School
	loaded     bool
	errMsg     string
	flash      string
	flashUntil time.Time
}

// NewListingView creates a view. from may be nil when not arriving from a submission.
func NewListingView(api Lister, from *Redirect) *ListingView {
	return newListingView(api, from, time.Now)
}

func newListingView(api Lister, from *Redirect, now func() time.Time) *ListingView {
	v := &ListingView{api: api, now: now}
	if from != nil && from.Message != "" {
		v.flash = from.Message
		v.flashUntil = now().Add(FlashWindow)
	}
	return v
}

// Load issues exactly one fetch and records its outcome for Render.
func (v *ListingView) Load(ctx context.Context) error {
	schools, err := v.api.ListSchools(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loaded = true
	if err != nil {
		v.schools = nil
		v.errMsg = FetchErrorMessage(err)
		return err
	}
	v.schools = schools
	v.errMsg = ""
	return nil
}

// Schools returns the records from the last successful Load.
func (v *ListingView) Schools() []model.School {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.School, len(v.schools))
	copy(out, v.schools)
	return out
}

// Flash returns the carried success message while it is still visible.
// Once the window has passed the message is dropped for good.
func (v *ListingView) Flash() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.flashLocked()
}

func (v *ListingView) flashLocked() string {
	if v.flash == "" {
		return ""
	}
	if !v.now().Before(v.flashUntil) {
		v.flash = ""
		return ""
	}
	return v.flash
}

// ErrorMessage is the banner text of the last failed Load.
func (v *ListingView) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// Render writes the current view as plain text cards.
func (v *ListingView) Render(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var b strings.Builder
	if msg := v.flashLocked(); msg != "" {
		fmt.Fprintf(&b, "%s\n\n", msg)
	}

	switch {
	case v.errMsg != "":
		fmt.Fprintf(&b, "Error: %s\n", v.errMsg)
	case !v.loaded:
		b.WriteString("Loading schools...\n")
	case len(v.schools) == 0:
		b.WriteString(msgNoSchools + "\n")
	default:
		for i, s := range v.schools {
			if i > 0 {
				b.WriteString("\n")
			}
			writeCard(&b, s)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, s model.School) {
	fmt.Fprintf(b, "#%d %s\n", s.ID, s.Name)
	fmt.Fprintf(b, "  Address: %s, %s, %s\n", s.Address, s.City, s.State)
	fmt.Fprintf(b, "  Contact: %s\n", s.Contact)
	fmt.Fprintf(b, "  Email:   %s\n", s.EmailID)
	fmt.Fprintf(b, "  Image:   %s\n", s.Image)
}
