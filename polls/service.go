// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"database/sql"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/pollbox/db"
)

// Service owns every read and write of polls, choices and votes.
// It holds no mutable state of its own; coordination is left to the
// database's transactions.
type Service struct {
	db       *sql.DB
	now      func() time.Time
	validate *validator.Validate
	// rowLock is appended to SELECTs that must hold their rows until commit.
	// SQLite runs one connection at a time and needs none.
	rowLock string
}

func NewService(conn *sql.DB) *Service {
	svc := &Service{
		db:       conn,
		now:      defaultClock,
		validate: newValidator(),
	}
	if db.IsPostgres(conn) {
		svc.rowLock = " FOR UPDATE"
	}
	return svc
}

// WithClock returns a copy of the service that reads time from now
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = func() time.Time { return normalize(now()) }
	return &c
}

// Now is the service's current time, in the form it is stored
func (s *Service) Now() time.Time {
	return s.now()
}

func defaultClock() time.Time {
	return normalize(time.Now())
}

// normalize keeps timestamps comparable across drivers: UTC, no monotonic
// reading, microsecond precision like PostgreSQL
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
