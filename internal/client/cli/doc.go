// Package cli provides the interactive ministry site command-line client.
//
// It wires configuration, the local session database, the cached API
// services and an interactive REPL in which every page of the site is a
// path. Typical flow: show today's announcements, start a background
// connectivity watcher, and open pages such as /events or
// /events/<id>/register.
//
// Key features:
//   - Public pages: home, sermons, events, registration, announcements,
//     gallery, ministries, service times, contact
//   - Admin pages under /admin, gated by the stored admin flag
//   - Login / Logout with a bcrypt-checked passcode
//   - Export of registrations to CSV or PDF
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
