// Package client contains the HTTP resource clients for the ministry REST
// backend.
//
// # Overview
//
// One exported operation maps onto exactly one HTTP call: no retries, no
// batching, no pagination cursors. Retrying belongs to the cache layer.
//
//  1. A transport-agnostic contract (Client and the per-resource
//     interfaces) consumed by the services package.
//  2. HTTPClient, the net/http implementation. Response bodies are parsed
//     once: the {"success","data","message"} envelope is unwrapped when
//     present, and entities are validated before they are returned.
//  3. Collection, the generic CRUD resource reused for every entity path.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses become *APIError
// carrying the server's message (falling back to the status text); 404 and
// 401/403 additionally match ErrNotFound and ErrUnauthorized via errors.Is.
package client
