// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/pollbox/models"
)

const (
	Day = 24 * time.Hour

	// DefaultExpiration applies when the creator does not choose one
	DefaultExpiration = 90 * Day
	// PermanentDeletionDelay is how long a soft-deleted poll is kept
	PermanentDeletionDelay = 30 * Day
	// ExpiringSoonWindow is used for sweeper statistics
	ExpiringSoonWindow = 7 * Day
)

// IsExpired reports whether the poll's expiry has been reached.
// A poll expiring exactly at now is expired.
func IsExpired(p models.Poll, now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// IsSoftDeleted reports whether the poll has a deletion timestamp
func IsSoftDeleted(p models.Poll) bool {
	return p.DeletedAt != nil
}

// IsActive reports whether the poll is neither soft-deleted nor expired
func IsActive(p models.Poll, now time.Time) bool {
	return !IsSoftDeleted(p) && !IsExpired(p, now)
}

// DaysUntilExpiration returns nil for polls that never expire.
// Partial days are truncated and the result never goes below zero.
func DaysUntilExpiration(p models.Poll, now time.Time) *int {
	if p.ExpiresAt == nil {
		return nil
	}
	days := wholeDays(p.ExpiresAt.Sub(now))
	return &days
}

// DaysUntilPermanentDeletion returns nil for polls that are not soft-deleted
func DaysUntilPermanentDeletion(p models.Poll, now time.Time) *int {
	if p.DeletedAt == nil {
		return nil
	}
	days := wholeDays(PermanentDeletionAt(p).Sub(now))
	return &days
}

// PermanentDeletionAt is meaningful only for soft-deleted polls
func PermanentDeletionAt(p models.Poll) time.Time {
	if p.DeletedAt == nil {
		return time.Time{}
	}
	return p.DeletedAt.Add(PermanentDeletionDelay)
}

// SoftDelete marks the poll deleted at now. Calling it again refreshes the
// timestamp.
func SoftDelete(p *models.Poll, now time.Time) {
	t := now
	p.DeletedAt = &t
}

// Restore clears the deletion mark. Expiry is left as it was.
func Restore(p *models.Poll) {
	p.DeletedAt = nil
}

// Info collects the lifecycle view of a poll at now
func Info(p models.Poll, now time.Time) models.LifecycleInfo {
	return models.LifecycleInfo{
		IsActive:                   IsActive(p, now),
		IsExpired:                  IsExpired(p, now),
		IsSoftDeleted:              IsSoftDeleted(p),
		DaysUntilExpiration:        DaysUntilExpiration(p, now),
		DaysUntilPermanentDeletion: DaysUntilPermanentDeletion(p, now),
	}
}

func wholeDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / Day)
}

type expiryKind int

const (
	expiryDefault expiryKind = iota
	expiryNever
	expiryAt
	expiryAfter
)

// Expiry is the creator's expiration choice. The zero value means "use the
// default".
type Expiry struct {
	kind  expiryKind
	at    time.Time
	after time.Duration
}

func DefaultExpiry() Expiry { return Expiry{kind: expiryDefault} }

func NeverExpires() Expiry { return Expiry{kind: expiryNever} }

func ExpiresAt(t time.Time) Expiry { return Expiry{kind: expiryAt, at: t} }

func ExpiresAfter(days int) Expiry {
	return Expiry{kind: expiryAfter, after: time.Duration(days) * Day}
}

// IsDefault reports whether no explicit choice was made
func (e Expiry) IsDefault() bool { return e.kind == expiryDefault }

// Resolve turns the choice into the stored expires_at value
func (e Expiry) Resolve(now time.Time) *time.Time {
	var t time.Time
	switch e.kind {
	case expiryNever:
		return nil
	case expiryAt:
		t = e.at
	case expiryAfter:
		t = now.Add(e.after)
	default:
		t = now.Add(DefaultExpiration)
	}
	return &t
}

// ParseExpiry reads the expiration selector from a create form: "never", a
// non-negative day count, or anything else for the default
func ParseExpiry(selector string) Expiry {
	selector = strings.TrimSpace(selector)
	if strings.EqualFold(selector, models.ExpirationNever) {
		return NeverExpires()
	}

	days, err := strconv.Atoi(selector)
	if err != nil || days < 0 {
		return DefaultExpiry()
	}
	return ExpiresAfter(days)
}
