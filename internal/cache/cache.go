// Package cache stores rendered reports between writes. Redis is used when
// configured so every API instance shares one cache; otherwise an
// in-process LRU takes its place.
package cache

import (
	"context"
	"fmt"
)

type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix drops every entry whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

const (
	keyRoot      = "report:"
	globalPrefix = keyRoot + "global:"
)

// EventKey names one report of a single event.
func EventKey(eventID int64, report string) string {
	return fmt.Sprintf("%s%s", EventPrefix(eventID), report)
}

// EventPrefix covers every report of one event.
func EventPrefix(eventID int64) string {
	return fmt.Sprintf("%sevent:%d:", keyRoot, eventID)
}

// GlobalKey names a report that spans all events.
func GlobalKey(report string) string {
	return globalPrefix + report
}

// GlobalPrefix covers every cross-event report.
func GlobalPrefix() string { return globalPrefix }

// AllPrefix covers every report.
func AllPrefix() string { return keyRoot }
