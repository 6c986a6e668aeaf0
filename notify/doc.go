// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify delivers generated credentials out of band. New returns an
// SMTP notifier when SMTP_HOST is set and a log-only notifier otherwise.
package notify
