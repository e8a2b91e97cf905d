// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (handles, directory records, device snapshots) and
// contracts (interfaces) only.
package domain
