// Package store persists a home.Home as a single data file.
//
// Every Save rewrites the whole file: the home is encoded into a temporary
// file next to the destination, synced, and renamed over it. A crash during
// Save leaves either the old file or the new one, never a mix.
package store
