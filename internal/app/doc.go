// Package app contains the core generation logic. It defines the main App
// struct, its configuration, and the load-synthesize-emit lifecycle,
// decoupled from any specific entrypoint like a CLI.
package app
