package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/textsnap/internal/core/kv"
)

// Permission names a device capability that needs user consent.
type Permission string

const (
	PermissionCamera       Permission = "camera"
	PermissionMediaLibrary Permission = "media_library"
)

// AllPermissions lists every known permission in display order.
func AllPermissions() []Permission {
	return []Permission{PermissionCamera, PermissionMediaLibrary}
}

// ParsePermission converts a user supplied name into a Permission.
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch p {
	case PermissionCamera, PermissionMediaLibrary:
		return p, nil
	default:
		return "", fmt.Errorf("unknown permission %q (want %s or %s)", s, PermissionCamera, PermissionMediaLibrary)
	}
}

// Label is the human readable name of p.
func (p Permission) Label() string {
	switch p {
	case PermissionCamera:
		return "camera"
	case PermissionMediaLibrary:
		return "media library"
	default:
		return string(p)
	}
}

// AsksOnce reports whether a denial of p is final until the stored status is
// changed. The camera is asked for once; the media library is asked again on
// every use while it is not granted.
func (p Permission) AsksOnce() bool {
	return p == PermissionCamera
}

func (p Permission) key() string {
	return "permission." + string(p)
}

// Status is the stored consent state of a permission.
type Status string

const (
	StatusUndetermined Status = "undetermined"
	StatusGranted      Status = "granted"
	StatusDenied       Status = "denied"
)

// Prompter asks the user a yes/no question. Implementations return
// ErrNotInteractive when nobody can answer and ErrCancelled when the user
// dismisses the question.
type Prompter interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// PermissionState is a permission with its stored status.
type PermissionState struct {
	Permission Permission
	Status     Status
	UpdatedAt  time.Time
}

// Permissions stores consent decisions in the local key-value store.
//
// A granted permission is never asked for again. After a camera denial Request
// keeps returning denied until the status is changed with Set or Reset; a
// denied media library is asked for again.
type Permissions struct {
	store    kv.Store
	prompter Prompter
	log      zerolog.Logger
}

// NewPermissions creates a permission manager backed by store.
func NewPermissions(store kv.Store, prompter Prompter, log zerolog.Logger) *Permissions {
	return &Permissions{store: store, prompter: prompter, log: log}
}

// Status returns the stored status of p.
func (p *Permissions) Status(ctx context.Context, perm Permission) (Status, error) {
	st, _, err := p.load(ctx, perm)
	return st, err
}

func (p *Permissions) load(ctx context.Context, perm Permission) (Status, time.Time, error) {
	entry, err := p.store.Get(ctx, perm.key())
	if errors.Is(err, kv.ErrKeyNotFound) {
		return StatusUndetermined, time.Time{}, nil
	}
	if err != nil {
		return StatusUndetermined, time.Time{}, fmt.Errorf("read %s permission: %w", perm, err)
	}

	switch st := Status(entry.Value); st {
	case StatusGranted, StatusDenied:
		return st, entry.UpdatedAt, nil
	default:
		p.log.Warn().Str("permission", string(perm)).Str("value", entry.Value).Msg("unknown permission status, treating as undetermined")
		return StatusUndetermined, entry.UpdatedAt, nil
	}
}

// Request returns the status of perm, asking the user when it is undetermined
// or a denial that may be asked again. The answer is persisted. Without an interactive terminal the
// request resolves to denied and nothing is stored.
func (p *Permissions) Request(ctx context.Context, perm Permission) (Status, error) {
	st, err := p.Status(ctx, perm)
	if err != nil {
		return StatusUndetermined, err
	}
	if st == StatusGranted || (st == StatusDenied && perm.AsksOnce()) {
		return st, nil
	}

	ok, err := p.prompter.Confirm(ctx,
		fmt.Sprintf("Allow textsnap to use the %s?", perm.Label()),
		permissionDescription(perm),
	)
	switch {
	case errors.Is(err, ErrNotInteractive):
		p.log.Debug().Str("permission", string(perm)).Msg("cannot prompt for permission, treating as denied")
		return StatusDenied, nil
	case err != nil:
		return StatusUndetermined, err
	}

	st = StatusDenied
	if ok {
		st = StatusGranted
	}

	if err := p.Set(ctx, perm, st); err != nil {
		return StatusUndetermined, err
	}

	return st, nil
}

// Ensure requests perm and returns a *PermissionError unless it is granted.
func (p *Permissions) Ensure(ctx context.Context, perm Permission) error {
	st, err := p.Request(ctx, perm)
	if err != nil {
		return err
	}
	if st == StatusGranted {
		return nil
	}

	return &PermissionError{
		Permission: perm,
		Settings:   perm.AsksOnce(),
	}
}

// Set stores status for perm. StatusUndetermined removes the record.
func (p *Permissions) Set(ctx context.Context, perm Permission, status Status) error {
	if status == StatusUndetermined {
		return p.Reset(ctx, perm)
	}

	if err := p.store.Set(ctx, perm.key(), string(status)); err != nil {
		return fmt.Errorf("save %s permission: %w", perm, err)
	}

	p.log.Debug().Str("permission", string(perm)).Str("status", string(status)).Msg("permission updated")
	return nil
}

// Reset forgets the decision for perm so the user is asked again.
func (p *Permissions) Reset(ctx context.Context, perm Permission) error {
	if err := p.store.Delete(ctx, perm.key()); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("reset %s permission: %w", perm, err)
	}
	return nil
}

// All returns the state of every known permission.
func (p *Permissions) All(ctx context.Context) ([]PermissionState, error) {
	perms := AllPermissions()

	states := make([]PermissionState, 0, len(perms))
	for _, perm := range perms {
		st, updated, err := p.load(ctx, perm)
		if err != nil {
			return nil, err
		}
		states = append(states, PermissionState{Permission: perm, Status: st, UpdatedAt: updated})
	}

	return states, nil
}

func permissionDescription(perm Permission) string {
	switch perm {
	case PermissionCamera:
		return "The camera is used to photograph a document for text recognition."
	case PermissionMediaLibrary:
		return "Your pictures folder is listed so you can choose an image."
	default:
		return ""
	}
}
