// Package models defines the entities synchronized between the ministry
// backend and the client cache: sermons, events, registrations and the simple
// catalog records (announcements, gallery images, ministries, service times).
//
// Every struct mirrors the backend JSON. Fields tagged `json:"-"` are
// transient client state (provisional/updating markers) and never leave the
// process.
package models
